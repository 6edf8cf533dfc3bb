package models

import "strings"

type Role string

const (
	StudentRole      Role = "student"
	StaffRole        Role = "staff"
	LabAssistantRole Role = "lab_assistant"
	AdminRole        Role = "admin"
)

// ParseRole normalizes the role spellings the remote API has used over time.
// Unknown or empty values fall back to StudentRole.
func ParseRole(raw string) Role {
	r := strings.ToLower(strings.TrimSpace(raw))
	r = strings.ReplaceAll(r, " ", "_")
	r = strings.ReplaceAll(r, "-", "_")
	switch r {
	case "admin", "administrator":
		return AdminRole
	case "lab_assistant", "labassistant", "lab":
		return LabAssistantRole
	case "staff", "teacher":
		return StaffRole
	default:
		return StudentRole
	}
}

func (r Role) IsOneOf(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanManageRequests reports whether the role may approve, reject or return requests.
func (r Role) CanManageRequests() bool {
	return r.IsOneOf(AdminRole, LabAssistantRole)
}

// CanBorrow reports whether the role may submit borrow requests.
func (r Role) CanBorrow() bool {
	return r.IsOneOf(StudentRole, StaffRole)
}
