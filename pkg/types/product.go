package types

import "time"

// Product is the server-owned catalog record, embedded reviews included.
// Field names mirror the backend's JSON contract.
type Product struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	Price        float64  `json:"price"`
	CountInStock int      `json:"countInStock"`
	Rating       float64  `json:"rating"`
	NumReviews   int      `json:"numReviews"`
	Reviews      []Review `json:"reviews,omitempty"`
}

// Review is a buyer review embedded in a product record.
type Review struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewInput is the client-side payload for submitting a review.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
	Image   string `json:"image,omitempty"`
}

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	Name         string  `json:"name" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
}
