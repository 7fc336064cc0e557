package domain

import (
	"errors"
	"time"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrDuplicateEmail = errors.New("member with this email already exists")
)

// Member is a registered person (socio). Profile holds any extra fields
// that are not part of the fixed schema.
type Member struct {
	ID        int64
	Email     string
	Name      string
	Phone     string
	Profile   map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}
