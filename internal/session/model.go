package session

import "time"

// User is the normalized view of an authenticated identity.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// DisplayName returns the best human readable name for the user.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Identity is a verified token: the user it belongs to and when it stops being valid.
type Identity struct {
	User      User
	ExpiresAt time.Time
}

// SignInRequest is the body of POST /session.
type SignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}
