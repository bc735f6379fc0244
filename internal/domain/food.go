package domain

import "time"

type Food struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryID  int64     `json:"category_id"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}
