package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	api "github.com/rihla-academy/rihla-lms/internal/api/http"
	auth "github.com/rihla-academy/rihla-lms/internal/auth/middleware"
	"github.com/rihla-academy/rihla-lms/internal/config"
	"github.com/rihla-academy/rihla-lms/internal/db"
	"github.com/rihla-academy/rihla-lms/internal/notify"
	"github.com/rihla-academy/rihla-lms/internal/rbac"
	"github.com/rihla-academy/rihla-lms/internal/schedule"
	"github.com/rihla-academy/rihla-lms/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := seedAdmin(ctx, dbh, cfg); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	store := schedule.NewSQLStore(dbh, cfg.DBDriver)
	notifier := notify.NewRepo(dbh)
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	bs, err := storage.NewFSStore(cfg.UploadBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public
	r.Post("/auth/register", api.RegisterHandler(dbh, notifier))
	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → role from DB → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, false))

		// Courses
		pr.With(rbac.Require("course:create")).
			Post("/courses", api.CreateCourseHandler(dbh, store, cfg.DayTitleFormat))
		pr.Get("/courses", api.ListCoursesHandler(dbh))
		pr.With(rbac.Require("course:enroll")).
			Post("/courses/{courseID}/enroll", api.EnrollHandler(dbh))
		pr.With(rbac.Require("course:publish")).
			Post("/courses/{courseID}/publish", api.PublishCourseHandler(dbh))
		pr.With(rbac.Require("course:launch")).
			Post("/courses/{courseID}/launch", api.LaunchCourseHandler(dbh, notifier))

		// Scheduling
		pr.With(rbac.Require("schedule:view")).
			Get("/courses/{courseID}/schedule", api.GetScheduleHandler(store))
		pr.With(rbac.Require("schedule:edit")).
			Post("/courses/{courseID}/schedule", api.SaveDayHandler(store))
		pr.With(rbac.Require("schedule:edit")).
			Post("/courses/{courseID}/schedule/days", api.AppendDayHandler(store, cfg.DayTitleFormat))
		pr.With(rbac.Require("schedule:edit")).
			Post("/courses/{courseID}/schedule/autofill", api.AutoFillHandler(store, cfg.DefaultExamTime))
		pr.With(rbac.Require("template:create")).
			Post("/courses/templates", api.SaveTemplateHandler(store))

		// Exams
		pr.With(rbac.Require("exam:view")).
			Get("/courses/{courseID}/schedule/{dayNumber}/exam", api.GetDayExamHandler(store))
		pr.With(rbac.Require("exam:create")).
			Post("/exams", api.PublishExamHandler(store, dbh, notifier))
		pr.With(rbac.Require("exam:create")).
			Post("/exams/import-questions", api.ImportQuestionsHandler())

		// Users
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("user:approve")).
			Post("/users/{userID}/approve", api.ApproveUserHandler(dbh, notifier))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))

		// Payments
		pr.With(rbac.Require("payment:review")).
			Post("/payments", api.CreatePaymentHandler(dbh))
		pr.With(rbac.RequireAny("payment:list-own", "payment:view")).
			Get("/payments", api.ListPaymentsHandler(dbh))
		pr.With(rbac.Require("payment:upload_proof")).
			Post("/payments/{paymentID}/proof", api.UploadProofHandler(dbh, bs))
		pr.With(rbac.RequireAny("payment:list-own", "payment:view")).
			Get("/payments/{paymentID}/proof", api.GetProofHandler(dbh, bs))
		pr.With(rbac.Require("payment:review")).
			Post("/payments/{paymentID}/review", api.ReviewPaymentHandler(dbh, notifier))

		// Notifications
		pr.With(rbac.Require("notification:view")).
			Get("/notifications", api.ListNotificationsHandler(notifier))
		pr.With(rbac.Require("notification:view")).
			Post("/notifications/{notificationID}/read", api.MarkNotificationReadHandler(notifier))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// seedAdmin inserts the bootstrap admin account on first run. Skipped unless
// ADMIN_PASS_HASH is configured.
func seedAdmin(ctx context.Context, dbh *sql.DB, cfg config.Config) error {
	if cfg.AdminPassHash == "" {
		return nil
	}
	var exists int
	err := dbh.QueryRowContext(ctx, `SELECT 1 FROM users WHERE role='admin' LIMIT 1`).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	_, err = dbh.ExecContext(ctx, `INSERT INTO users
			(id, full_name, email, phone, password_hash, role, status, details, created_at)
		VALUES ($1,'Administrator',$2,'',$3,'admin','active','{}',$4)`,
		uuid.NewString(), cfg.AdminEmail, cfg.AdminPassHash, time.Now().Unix())
	return err
}
