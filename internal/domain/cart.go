package domain

// CartItem is a snapshot of a product at the time it was added, plus the
// chosen option values. Items are never merged, even for the same product.
type CartItem struct {
	LineID          string            `json:"line_id"`
	Product         Product           `json:"product"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}
