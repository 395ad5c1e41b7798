package lawyer

import "time"

// Profile represents a lawyer's public marketplace profile.
type Profile struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user"`
	Specializations []string  `json:"specialization"`
	BarCertificate  string    `json:"bar_certificate"`
	Verified        bool      `json:"verified"`
	Rating          float64   `json:"rating"`
	WalletID        string    `json:"wallet_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ListFilter narrows directory listings.
type ListFilter struct {
	Specialization string
	Search         string
	VerifiedOnly   bool
}
