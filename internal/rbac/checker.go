package rbac

import "strings"

// Checker answers "may this role perform this action". Permissions are
// "resource:action" strings. A granted "resource:*" covers every action on
// the resource and a bare "*" covers everything.
type Checker struct {
	grants map[string][]string
}

func NewChecker(grants map[string][]string) *Checker {
	if grants == nil {
		grants = RolePermissions
	}
	return &Checker{grants: grants}
}

func (c *Checker) Allowed(role, perm string) bool {
	for _, g := range c.grants[role] {
		if granted(g, perm) {
			return true
		}
	}
	return false
}

func (c *Checker) AllowedAny(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Allowed(role, p) {
			return true
		}
	}
	return false
}

func granted(grant, perm string) bool {
	if grant == "*" || grant == perm {
		return true
	}
	if prefix, ok := strings.CutSuffix(grant, "*"); ok {
		return strings.HasPrefix(perm, prefix)
	}
	return false
}
