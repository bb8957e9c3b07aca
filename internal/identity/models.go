package identity

import (
	dErrors "peopledesk/pkg/domain-errors"
)

// Role is the closed set of roles recognised by the service. Authorization
// decisions go through the permission table below rather than ad-hoc string
// comparisons at call sites.
type Role string

const (
	RoleHR       Role = "HR"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

var validRoles = map[Role]bool{
	RoleHR:       true,
	RoleManager:  true,
	RoleEmployee: true,
}

// ParseRole constructs a Role from external input such as JWT claims.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !validRoles[r] {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown role %q", s)
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}

// Permission names one operation a role may perform.
type Permission string

const (
	PermPolicyRead        Permission = "policy:read"
	PermLeaveCreate       Permission = "workflow:leave:create"
	PermLeaveDecideAny    Permission = "workflow:leave:decide:any"
	PermLeaveDecideTeam   Permission = "workflow:leave:decide:team"
	PermDocumentRequest   Permission = "workflow:document:request"
	PermDocumentFulfill   Permission = "workflow:document:fulfill"
	PermOnboardingTrigger Permission = "workflow:onboarding:trigger"
	PermGovernanceManage  Permission = "governance:manage"
	PermAnalyticsView     Permission = "analytics:view"
	PermUsersRead         Permission = "users:read"
)

// rolePermissions is the single source of truth for role capabilities.
var rolePermissions = map[Role]map[Permission]bool{
	RoleHR: {
		PermPolicyRead:        true,
		PermLeaveCreate:       true,
		PermLeaveDecideAny:    true,
		PermDocumentRequest:   true,
		PermDocumentFulfill:   true,
		PermOnboardingTrigger: true,
		PermGovernanceManage:  true,
		PermAnalyticsView:     true,
		PermUsersRead:         true,
	},
	RoleManager: {
		PermPolicyRead:      true,
		PermLeaveCreate:     true,
		PermLeaveDecideTeam: true,
		PermDocumentRequest: true,
		PermAnalyticsView:   true,
	},
	RoleEmployee: {
		PermPolicyRead:      true,
		PermLeaveCreate:     true,
		PermDocumentRequest: true,
	},
}

// Can reports whether the role carries the permission.
func (r Role) Can(p Permission) bool {
	return rolePermissions[r][p]
}

// User is the primary identity tracked by the service. Users are seeded at
// startup and never physically deleted: erasure anonymizes fields instead.
type User struct {
	ID           string   `json:"user_id"`
	Username     string   `json:"username"`
	FullName     string   `json:"full_name"`
	Role         Role     `json:"role"`
	ManagerID    string   `json:"manager_id,omitempty"`
	TeamMembers  []string `json:"team_members,omitempty"`
	PasswordHash string   `json:"-"`
	GDPRConsent  bool     `json:"gdpr_consent"`
	Active       bool     `json:"active"`
}

// HasRole reports whether the user holds one of the allowed roles.
func (u User) HasRole(allowed ...Role) bool {
	for _, role := range allowed {
		if u.Role == role {
			return true
		}
	}
	return false
}

// RequireRole returns a forbidden fault when the user holds none of the
// allowed roles.
func RequireRole(u User, allowed ...Role) error {
	if !u.HasRole(allowed...) {
		return dErrors.Newf(dErrors.CodeForbidden, "role %s may not perform this operation", u.Role)
	}
	return nil
}

// CanActOn implements the self-access rule: HR acts on anyone, a manager on
// their direct reports and themselves, everyone else only on themselves.
func (u User) CanActOn(subjectID string) bool {
	if u.ID == subjectID {
		return true
	}
	switch u.Role {
	case RoleHR:
		return true
	case RoleManager:
		for _, member := range u.TeamMembers {
			if member == subjectID {
				return true
			}
		}
	}
	return false
}
