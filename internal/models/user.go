package models

import (
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleNormalUser Role = "Normal User"
	RoleStoreOwner Role = "Store Owner"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleNormalUser, RoleStoreOwner}

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleNormalUser, RoleStoreOwner:
		return true
	default:
		return false
	}
}

// ParseRole converts a raw string into a Role. An empty string yields the
// default role.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleNormalUser, true
	}
	r := Role(s)
	return r, r.IsValid()
}

// User represents an account: a shopper, a store owner or an administrator.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(60);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Address   string    `json:"address" gorm:"type:varchar(400)"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'Normal User';index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique
// index agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
