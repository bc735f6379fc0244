package domain

// CartLine is one client-submitted "add to cart" entry. Carts are never
// persisted; they only live for the duration of a single order request.
type CartLine struct {
	FoodID   int64 `json:"id"`
	Quantity int   `json:"quantity"`
}
