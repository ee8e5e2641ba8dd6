package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TenantStatus string

const (
	TenantActive    TenantStatus = "ACTIVE"
	TenantSuspended TenantStatus = "SUSPENDED"
	TenantArchived  TenantStatus = "ARCHIVED"
)

type Tenant struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Slug      string          `json:"slug" db:"slug"`
	Status    TenantStatus    `json:"status" db:"status"`
	Template  string          `json:"template" db:"template"`
	Settings  json.RawMessage `json:"settings" db:"settings"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// CanTransitionTo reports whether a tenant status change is legal.
// ARCHIVED is terminal.
func (s TenantStatus) CanTransitionTo(next TenantStatus) bool {
	if s == TenantArchived {
		return false
	}
	switch next {
	case TenantActive, TenantSuspended, TenantArchived:
		return next != s
	}
	return false
}
