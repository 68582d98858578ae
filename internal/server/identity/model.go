package identity

import "time"

// Record is one registered account as held by a Store. CredentialHash never
// leaves the store/hasher boundary; callers get a PublicIdentity instead.
type Record struct {
	Username       string
	Email          string
	FullName       *string
	Disabled       bool
	CredentialHash string
	CreatedAt      time.Time
}

// PublicIdentity is the projection of a Record that is safe to hand out.
type PublicIdentity struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Disabled bool    `json:"disabled"`
}

// Public projects the record, dropping the credential hash.
func (r *Record) Public() *PublicIdentity {
	return &PublicIdentity{
		Username: r.Username,
		Email:    r.Email,
		FullName: cloneString(r.FullName),
		Disabled: r.Disabled,
	}
}

func (r *Record) clone() *Record {
	c := *r
	c.FullName = cloneString(r.FullName)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
