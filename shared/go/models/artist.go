package models

// Artist represents a performer in the catalog.
type Artist struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Bio      string `json:"bio,omitempty" db:"bio"`
	ImageURL string `json:"image_url,omitempty" db:"image_url"`
}
