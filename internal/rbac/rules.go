package rbac

// Default policy for the five account roles. "head" is the academic lead
// tier: everything course-related short of full admin.
var RolePermissions = map[string][]string{
	"student": {
		"schedule:view",
		"exam:view",
		"payment:upload_proof",
		"payment:list-own",
		"notification:view",
		"user:change_password",
	},
	"parent": {
		"schedule:view",
		"payment:upload_proof",
		"payment:list-own",
		"notification:view",
		"user:change_password",
	},
	"teacher": {
		"schedule:view",
		"schedule:edit",
		"exam:view",
		"exam:create",
		"notification:view",
		"user:change_password",
	},
	"head": {
		"course:*",
		"schedule:*",
		"template:create",
		"exam:*",
		"users:list",
		"user:approve",
		"payment:view",
		"notification:view",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
