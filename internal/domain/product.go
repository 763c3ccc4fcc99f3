package domain

import "github.com/shopspring/decimal"

// OptionValue is a single selectable value of a product option.
// An empty Image means the value renders as a text swatch.
type OptionValue struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Option is a configurable product attribute, e.g. "Length" or "Strap".
type Option struct {
	Name   string        `json:"name"`
	Values []OptionValue `json:"values"`
}

// HasValue reports whether the option offers a value with the given name.
func (o Option) HasValue(name string) bool {
	for _, v := range o.Values {
		if v.Name == name {
			return true
		}
	}
	return false
}

// Product is the normalized catalog entry shown by the storefront.
// Products are replaced wholesale on every sync and never mutated in place.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Tagline         string          `json:"tagline"`
	Description     string          `json:"description"`
	LongDescription string          `json:"long_description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`             // primary category, for display
	Categories      []string        `json:"categories,omitempty"` // every category, for filtering
	ImageURL        string          `json:"image_url"`
	Gallery         []string        `json:"gallery,omitempty"`
	Features        []string        `json:"features"`
	Options         []Option        `json:"options,omitempty"`
	HasVariants     bool            `json:"has_variants"`
}

// Clone returns a deep copy so callers can snapshot or enrich a product
// without touching the shared catalog.
func (p Product) Clone() Product {
	c := p
	c.Categories = cloneStrings(p.Categories)
	c.Gallery = cloneStrings(p.Gallery)
	c.Features = cloneStrings(p.Features)
	c.Options = CloneOptions(p.Options)
	return c
}

// InCategory reports whether the product belongs to the given category,
// either as its primary category or through its full category list.
func (p Product) InCategory(category string) bool {
	if p.Category == category {
		return true
	}
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// CloneOptions deep-copies an option list.
func CloneOptions(options []Option) []Option {
	if options == nil {
		return nil
	}
	out := make([]Option, len(options))
	for i, o := range options {
		out[i] = Option{Name: o.Name}
		if o.Values != nil {
			out[i].Values = append([]OptionValue(nil), o.Values...)
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// FindProduct returns the product with the given id.
func FindProduct(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
