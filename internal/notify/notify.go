package notify

import (
	"context"
	"database/sql"
	"time"
)

// Notification types mirror what the dashboards group by.
const (
	TypeNewTask      = "new_task"
	TypeAnnouncement = "announcement"
	TypePayment      = "payment"
)

type Notification struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Link      string `json:"link,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt int64  `json:"created_at"`
}

// Repo writes and reads the notifications table. Delivery is pull-based:
// dashboards poll ListForUser; there is no push transport here.
type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// Push inserts one notification per recipient. A failed insert aborts the
// rest; notifications are best-effort and callers typically ignore the error.
func (r *Repo) Push(ctx context.Context, userIDs []string, typ, message, link string) error {
	now := time.Now().Unix()
	for _, uid := range userIDs {
		if uid == "" {
			continue
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO notifications (user_id, typ, message, link, read, created_at)
			 VALUES ($1,$2,$3,$4,0,$5)`,
			uid, typ, message, link, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// PushToRole notifies every user holding the given role.
func (r *Repo) PushToRole(ctx context.Context, role, typ, message, link string) error {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users WHERE role=$1`, role)
	if err != nil {
		return err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return r.Push(ctx, ids, typ, message, link)
}

func (r *Repo) ListForUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, typ, message, link, read, created_at
		 FROM notifications WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		var read int
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Link, &read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Read = read != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead is a no-op when the notification does not belong to userID.
func (r *Repo) MarkRead(ctx context.Context, userID string, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read=1 WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}
