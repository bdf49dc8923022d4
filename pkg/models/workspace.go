package models

import (
	"time"
)

// Workspace groups spaces, automations and engine instances under one
// tenant.
type Workspace struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	RepositoryURL    string    `json:"repository_url,omitempty"`
	MasterInstanceID *string   `json:"master_instance_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Credential is an encrypted secret bound 1:1 to a principal (a workspace
// or an engine instance). Only the vault ciphertext is ever stored or
// serialized.
type Credential struct {
	ID          string    `json:"id"`
	PrincipalID string    `json:"principal_id"`
	Ciphertext  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
