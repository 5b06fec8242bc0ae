package models

import "time"

// Base is the base model for all entities. IDs are auto-increment integers,
// matching the serial primary keys of the site's original schema.
type Base struct {
	ID        uint      `json:"id"       gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}
