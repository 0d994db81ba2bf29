package ports

import "github.com/memberhub/portal/internal/core/domain"

// SessionService mints and verifies stateless signed session tokens. There is
// no server-side session record: validity is entirely signature plus expiry.
type SessionService interface {
	Issue(identity domain.Identity) (string, error)
	IssueFor(result domain.AuthResult) (string, error)
	Validate(token string) (*domain.SessionClaims, error)
}
