package domain

import "time"

// User is a registered account. The password hash never leaves this process
// and is excluded from JSON rendering.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Picture      string    `json:"picture,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the public slice of a user handed to session issuance after a
// successful authentication.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// Identity returns the session-safe view of the user.
func (u *User) Identity() Identity {
	return Identity{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Picture: u.Picture,
	}
}

// ProviderProfile is the profile an external OAuth provider vouches for.
// No local password or lockout state applies to it.
type ProviderProfile struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture,omitempty"`
}

// AuthResult is the tagged union consumed by session issuance: exactly one of
// Credentials or OAuth is set.
type AuthResult struct {
	Credentials *Identity
	OAuth       *ProviderProfile
}

// Identity flattens either arm into the claim set a session carries.
func (r AuthResult) Identity() Identity {
	if r.Credentials != nil {
		return *r.Credentials
	}
	if r.OAuth != nil {
		return Identity{
			ID:      r.OAuth.Provider + ":" + r.OAuth.ID,
			Email:   r.OAuth.Email,
			Name:    r.OAuth.Name,
			Picture: r.OAuth.Picture,
		}
	}
	return Identity{}
}

// SessionClaims is the decoded content of a validated session token.
type SessionClaims struct {
	UserID  string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// LockStatus reports whether an identity is currently locked out and, if so,
// for how many more whole seconds (rounded up).
type LockStatus struct {
	Locked           bool
	RemainingSeconds int
}
