package rbac

import "testing"

func TestGranted(t *testing.T) {
	cases := []struct {
		grant, perm string
		want        bool
	}{
		{"*", "anything:at_all", true},
		{"schedule:view", "schedule:view", true},
		{"schedule:view", "schedule:edit", false},
		{"schedule:*", "schedule:edit", true},
		{"schedule:*", "exam:view", false},
		{"course:*", "course:launch", true},
	}
	for _, tc := range cases {
		if got := granted(tc.grant, tc.perm); got != tc.want {
			t.Errorf("granted(%q, %q) = %v, want %v", tc.grant, tc.perm, got, tc.want)
		}
	}
}

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)

	cases := []struct {
		role, perm string
		want       bool
	}{
		{"student", "schedule:view", true},
		{"student", "schedule:edit", false},
		{"student", "payment:upload_proof", true},
		{"parent", "exam:view", false},
		{"teacher", "schedule:edit", true},
		{"teacher", "course:create", false},
		{"head", "course:launch", true},
		{"head", "payment:review", false},
		{"admin", "payment:review", true},
		{"", "schedule:view", false},
		{"nobody", "schedule:view", false},
	}
	for _, tc := range cases {
		if got := c.Allowed(tc.role, tc.perm); got != tc.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}

	if !c.AllowedAny("student", "payment:view", "payment:list-own") {
		t.Error("student should pass AllowedAny with list-own")
	}
	if c.AllowedAny("teacher", "payment:view", "payment:list-own") {
		t.Error("teacher should fail AllowedAny on payment perms")
	}
}
