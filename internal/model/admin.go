package model

import "time"

// Admin roles.
const (
    RoleAdmin      = "admin"
    RoleSuperAdmin = "super-admin"
)

// ValidAdminRole reports whether r is one of the known admin roles.
func ValidAdminRole(r string) bool { return r == RoleAdmin || r == RoleSuperAdmin }

// Admin represents a row in the `admins` table.  An admin owns at most
// one market in practice.  PasswordHash never leaves the process.
type Admin struct {
    ID           uint64    `json:"id"`
    Name         string    `json:"name"`
    Surname      string    `json:"surname"`
    Username     string    `json:"username"`
    Email        string    `json:"email"`
    PasswordHash string    `json:"-"`
    City         string    `json:"city"`
    PhoneNumber  string    `json:"phoneNumber"`
    Role         string    `json:"adminRole"`
    ProfilePic   Image     `json:"profilePic"`
    CreatedAt    time.Time `json:"createdAt"`
    UpdatedAt    time.Time `json:"updatedAt"`
}
