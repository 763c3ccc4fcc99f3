// Package fallback bundles the static catalog and journal served whenever
// the commerce API is unreachable or returns nothing.
package fallback

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"elysoir/storefront/internal/domain"
	"elysoir/storefront/internal/sanitize"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type bundle struct {
	Products []productEntry `yaml:"products"`
	Articles []articleEntry `yaml:"articles"`
}

type optionEntry struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

type productEntry struct {
	ID              string        `yaml:"id"`
	Name            string        `yaml:"name"`
	Tagline         string        `yaml:"tagline"`
	Description     string        `yaml:"description"`
	LongDescription string        `yaml:"long_description"`
	Price           string        `yaml:"price"`
	Category        string        `yaml:"category"`
	ImageURL        string        `yaml:"image_url"`
	Features        []string      `yaml:"features"`
	Options         []optionEntry `yaml:"options"`
}

type articleEntry struct {
	ID      int    `yaml:"id"`
	Title   string `yaml:"title"`
	Date    string `yaml:"date"`
	Excerpt string `yaml:"excerpt"`
	Image   string `yaml:"image"`
	Body    string `yaml:"body"` // markdown
}

var (
	loadOnce sync.Once
	products []domain.Product
	articles []domain.Article
	loadErr  error
)

func load() {
	loadOnce.Do(func() {
		products, articles, loadErr = parse(catalogYAML)
	})
	if loadErr != nil {
		// The bundle is compiled in; a parse failure is a build defect.
		panic(fmt.Sprintf("fallback: invalid bundled catalog: %v", loadErr))
	}
}

// Products returns a fresh copy of the bundled products.
func Products() []domain.Product {
	load()
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

// Articles returns a fresh copy of the bundled journal articles.
func Articles() []domain.Article {
	load()
	return append([]domain.Article(nil), articles...)
}

// Categories returns "All" followed by the distinct categories of the bundled products.
func Categories() []string {
	return domain.DeriveCategories(Products())
}

func parse(data []byte) ([]domain.Product, []domain.Article, error) {
	var b bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, nil, fmt.Errorf("decode bundle: %w", err)
	}

	ps := make([]domain.Product, 0, len(b.Products))
	for _, e := range b.Products {
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, nil, fmt.Errorf("product %s: invalid price %q: %w", e.ID, e.Price, err)
		}
		p := domain.Product{
			ID:              e.ID,
			Name:            e.Name,
			Tagline:         e.Tagline,
			Description:     e.Description,
			LongDescription: e.LongDescription,
			Price:           price,
			Category:        e.Category,
			Categories:      []string{e.Category},
			ImageURL:        e.ImageURL,
			Gallery:         []string{e.ImageURL},
			Features:        e.Features,
		}
		for _, o := range e.Options {
			opt := domain.Option{Name: o.Name}
			for _, v := range o.Values {
				opt.Values = append(opt.Values, domain.OptionValue{Name: v})
			}
			p.Options = append(p.Options, opt)
		}
		ps = append(ps, p)
	}

	as := make([]domain.Article, 0, len(b.Articles))
	for _, e := range b.Articles {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(e.Body), &buf); err != nil {
			return nil, nil, fmt.Errorf("article %d: render body: %w", e.ID, err)
		}
		as = append(as, domain.Article{
			ID:      e.ID,
			Title:   e.Title,
			Date:    e.Date,
			Excerpt: e.Excerpt,
			Image:   e.Image,
			Content: sanitize.HTML(buf.String()),
		})
	}

	return ps, as, nil
}
