package domain

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleOwner  UserRole = "owner"
	UserRoleRenter UserRole = "renter"
)

// User is a directory record mirrored from the identity provider. It
// supplies display names and email addresses for notifications; the engine
// never derives authorization from it.
type User struct {
	ID        int32    `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
	CreatedOn string   `json:"created_on"`
}

// Actor is the authenticated caller of an engine operation. The identity
// provider supplies both fields on every call; they are trusted as-is.
type Actor struct {
	UserID int32
	Role   UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}
