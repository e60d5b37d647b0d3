package identity

import "strings"

// Principal is the authenticated caller as supplied by the identity provider.
type Principal struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
}

// Profile is the public identity summary attached to session projections.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Profile returns the projection of p stored in the user directory.
func (p Principal) Profile() Profile {
	return Profile{
		ID:        p.ID,
		Name:      strings.TrimSpace(p.Name),
		Email:     strings.TrimSpace(p.Email),
		AvatarURL: strings.TrimSpace(p.AvatarURL),
	}
}

// Valid reports whether p carries an identifier.
func (p Principal) Valid() bool {
	return strings.TrimSpace(p.ID) != ""
}
