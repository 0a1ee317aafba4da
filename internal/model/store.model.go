package model

import (
	"strings"
	"time"
)

// Store is the tenant. Its id comes from the identity provider.
type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StoreUpdateRequest struct {
	Name string
}

func (p *StoreUpdateRequest) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Validation("store name is required")
	}
	if len(p.Name) > 120 {
		return Validation("store name must be at most 120 characters")
	}
	return nil
}
