package domain

// Role determines issue visibility and mutation rights.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

var roleLabels = map[Role]string{
	RoleStudent: "Student",
	RoleStaff:   "Staff",
	RoleFaculty: "Faculty",
	RoleAdmin:   "Administrator",
}

// Label returns the display name of the role, or the raw value when unknown.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Built-in administrator identity. It is never persisted.
const (
	AdminID       = "admin_001"
	AdminUsername = "admin"
	AdminPassword = "admin123"
	AdminName     = "System Administrator"
)

// User is a registered account.
type User struct {
	ID       string `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"-"`
	Name     string `json:"name" yaml:"name"`
	Role     Role   `json:"role" yaml:"role"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BuiltinAdmin returns the reserved administrator account.
func BuiltinAdmin() User {
	return User{
		ID:       AdminID,
		Username: AdminUsername,
		Password: AdminPassword,
		Name:     AdminName,
		Role:     RoleAdmin,
	}
}
