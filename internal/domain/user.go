package domain

import (
	"fmt"
	"time"
)

// Role is a closed set. Use ParseRole at the boundary and switch or dispatch on
// the constants everywhere else.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
	RoleWaiter  Role = "waiter"
	RoleChef    Role = "chef"
)

func Roles() []Role {
	return []Role{RoleAdmin, RoleCashier, RoleWaiter, RoleChef}
}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID        int64
	Name      string
	Email     string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
