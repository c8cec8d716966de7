package domain

// User is the authenticated caller, taken from the session token.
type User struct {
	ID       string
	Username string
	Image    string
}

// DefaultUserImage is shown when the caller has no avatar.
const DefaultUserImage = "/placeholder-user.jpg"

func (u User) Avatar() string {
	if u.Image == "" {
		return DefaultUserImage
	}
	return u.Image
}
