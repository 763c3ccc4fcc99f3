package domain

// VariationAttribute is one name/value pair of a product variation,
// e.g. {"pa_strap", "Nude Leather"}.
type VariationAttribute struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

// Variation is a concrete purchasable combination of option values.
type Variation struct {
	ID         int                  `json:"id"`
	Attributes []VariationAttribute `json:"attributes"`
	ImageURL   string               `json:"image_url,omitempty"`
}
