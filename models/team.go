package models

import "time"

type Team struct {
	ID          int     `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
	// IsPlaceholder marks sentinel teams (e.g. the default officials crew)
	// that must never appear in listings, counts or standings.
	IsPlaceholder bool      `json:"is_placeholder" db:"is_placeholder"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
