package domain

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string
	Email        string
	PasswordHash []byte // bcrypt
	Role         string
}

// Session is the credential resolved from the session cookie. Collaborators
// that are scoped to "the current user" take it instead of a raw user ID.
type Session struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
