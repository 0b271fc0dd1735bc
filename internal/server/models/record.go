// Package models holds the life-log entity types, their enumerations and
// input validation.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lifelog/internal/common"
)

// Record is implemented by every owner-scoped entity.
type Record interface {
	GetID() string
	SetID(id string)
	Owner() string
	SetOwner(ownerID string)
}

// Mutable lists the JSON fields an update is allowed to replace.
// Entities without an update operation do not implement it.
type Mutable interface {
	MutableFields() []string
}

// Validatable is implemented by entities that check client input.
type Validatable interface {
	Validate() error
}

// Ownership is embedded by all entities. OwnerID is stamped by the
// service at creation and never taken from client input.
type Ownership struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
}

func (o *Ownership) GetID() string { return o.ID }
func (o *Ownership) SetID(id string) { o.ID = id }
func (o *Ownership) Owner() string { return o.OwnerID }
func (o *Ownership) SetOwner(ownerID string) { o.OwnerID = ownerID }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{common.ErrorValidation}, args...)...)
}

// required rejects empty and whitespace-only values.
func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}
