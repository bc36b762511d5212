package entities

// User represents an account holder. Password is an opaque credential;
// hashing and verification belong to the external identity provider.
type User struct {
	ID       int    `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
}
