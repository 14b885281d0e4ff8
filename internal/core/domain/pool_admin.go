package domain

import "strings"

// Signer is an identity taking part in a call. Signed reports whether the
// access layer verified that the caller controls ID.
type Signer struct {
	ID     string
	Signed bool
}

// NewSigner returns a verified signer for id.
func NewSigner(id string) Signer {
	return Signer{ID: NormalizeIdentity(id), Signed: true}
}

// NormalizeIdentity returns the canonical form of a hex identity, so that
// the same key always maps to the same admin and the same accounts.
func NormalizeIdentity(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func (p *Pool) authorize(caller Signer) error {
	if NormalizeIdentity(caller.ID) != p.Admin {
		return ErrNotAdmin
	}
	if !caller.Signed {
		return ErrMissingSignature
	}
	return nil
}

// SetPause overwrites the pause flag. Only the admin can do it.
func (p *Pool) SetPause(caller Signer, paused bool) error {
	if err := p.authorize(caller); err != nil {
		return err
	}
	p.Paused = paused
	return nil
}

// ChangeAdmin rotates the admin identity. Both the current admin and the new
// one must have signed, so that control can't be handed to an unreachable
// identity.
func (p *Pool) ChangeAdmin(caller, newAdmin Signer) error {
	if err := p.authorize(caller); err != nil {
		return err
	}
	admin := NormalizeIdentity(newAdmin.ID)
	if len(admin) <= 0 {
		return ErrPoolInvalidAdmin
	}
	if !newAdmin.Signed {
		return ErrMissingSignature
	}
	p.Admin = admin
	return nil
}
