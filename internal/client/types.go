package client

import "encoding/json"

// Raw WooCommerce REST payloads. Only the fields the storefront consumes are
// declared; everything is optional on the wire.

type wcCategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type wcImage struct {
	ID  int    `json:"id"`
	Src string `json:"src"`
}

type wcAttribute struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Variation bool     `json:"variation"`
	Options   []string `json:"options"`
}

type wcProduct struct {
	ID               json.Number     `json:"id"`
	Name             string          `json:"name"`
	ShortDescription string          `json:"short_description"`
	Description      string          `json:"description"`
	Price            string          `json:"price"`
	Categories       []wcCategoryRef `json:"categories"`
	Images           []wcImage       `json:"images"`
	Attributes       []wcAttribute   `json:"attributes"`
	Variations       []int           `json:"variations"`
}

type wcCategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type wcVariationAttribute struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

type wcVariation struct {
	ID         int                    `json:"id"`
	Attributes []wcVariationAttribute `json:"attributes"`
	Image      *wcImage               `json:"image"`
}
