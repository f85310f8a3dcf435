package models

type Venue struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Capacity *int   `json:"capacity,omitempty" db:"capacity"`
}
