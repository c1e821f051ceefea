package models

import (
	"time"

	"github.com/google/uuid"
)

// Study is a researcher-authored collection of ordered comparisons.
type Study struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
