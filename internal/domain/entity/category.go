package entity

import "time"

// Category agrupa artículos. Name y Slug son únicos.
type Category struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}
