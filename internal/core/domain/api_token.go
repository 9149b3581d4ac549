package domain

import "time"

// APIToken is a machine credential scoped to one address. Only the bcrypt
// hash of the secret is stored; the cleartext is shown once at creation.
type APIToken struct {
	TokenID    string     `json:"tokenID"` // Primary Key (UUID), doubles as the lookup prefix
	AddressID  string     `json:"addressID"`
	Name       string     `json:"name"`
	TokenHash  string     `json:"-"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
	AuditFields
}

// Active reports whether the token can still authenticate.
func (t *APIToken) Active() bool {
	return t.RevokedAt == nil
}
