package domain

import "strings"

// Role is the coarse permission level of a user.
type Role string

const (
	// RoleUser is the default role. Users manage only their own tasks.
	RoleUser Role = "USER"

	// RoleAdmin can see and modify every task and read aggregate statistics.
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts s to a Role. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}
