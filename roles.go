package enrollment

// Role is the closed set of principal kinds
type Role string

const (
	// RoleAdmin manages every resource
	RoleAdmin Role = "admin"
	// RoleStudent can read its own records
	RoleStudent Role = "student"
)

// IsValid checks if the role is one of the predefined roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStudent:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role is RoleAdmin
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleStudent,
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

func (r Role) displayName() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleStudent:
		return "Student"
	default:
		return "User"
	}
}
