package models

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleHR      UserRole = "hr"
)

func (r UserRole) Valid() bool {
	return r == UserRoleStudent || r == UserRoleHR
}

// Credential is a demo account; the password is stored as an argon2id hash.
type Credential struct {
	Username     string
	PasswordHash []byte
	Role         UserRole
}
