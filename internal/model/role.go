package model

// Role is one of the three fixed roles a user can hold
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

var Roles = []Role{RoleAdmin, RoleManager, RoleUser}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Can reports whether the role is granted the permission
func (r Role) Can(p Permission) bool {
	for _, allowed := range Permissions[p] {
		if allowed == r {
			return true
		}
	}
	return false
}
