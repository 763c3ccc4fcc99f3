package client

import (
	"strings"
	"time"
	"unicode/utf8"

	"elysoir/storefront/internal/domain"
	"elysoir/storefront/internal/sanitize"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	DefaultTagline      = "Exclusively for Elysoir"
	DefaultCategory     = "Collection"
	PlaceholderImage    = "https://images.unsplash.com/photo-1515562141207-7a18b5ce7142?auto=format&fit=crop&q=80&w=1000"
	PlaceholderArticle  = "https://images.unsplash.com/photo-1576053139778-7e32f2ae3cfd?auto=format&fit=crop&q=80&w=1000"
	taglineLimit        = 60
	articleDateLayout   = "January 2, 2006"
	featureAttrPrimary  = "Specifications"
	featureAttrFallback = "Details"
)

// DefaultFeatures is used when a product carries no specification attribute.
var DefaultFeatures = []string{"Fine Craftsmanship", "Limited Edition"}

// NormalizeProduct converts a raw commerce product into the storefront shape.
// Missing fields degrade to defaults; it never fails.
func NormalizeProduct(raw wcProduct) domain.Product {
	short := StripHTML(raw.ShortDescription)

	product := domain.Product{
		ID:              raw.ID.String(),
		Name:            StripHTML(raw.Name),
		Tagline:         tagline(short),
		Description:     short,
		LongDescription: StripHTML(raw.Description),
		Price:           parsePrice(raw.Price),
		Category:        DefaultCategory,
		ImageURL:        PlaceholderImage,
		HasVariants:     len(raw.Variations) > 0,
	}

	for _, c := range raw.Categories {
		product.Categories = append(product.Categories, c.Name)
	}
	if len(raw.Categories) > 0 && raw.Categories[0].Name != "" {
		product.Category = raw.Categories[0].Name
	}

	product.Gallery = gallery(raw.Images)
	if len(product.Gallery) > 0 {
		product.ImageURL = product.Gallery[0]
	} else {
		product.Gallery = []string{PlaceholderImage}
	}

	product.Features = features(raw.Attributes)

	for _, attr := range raw.Attributes {
		if !attr.Variation {
			continue
		}
		opt := domain.Option{Name: attr.Name, Values: make([]domain.OptionValue, 0, len(attr.Options))}
		for _, v := range attr.Options {
			opt.Values = append(opt.Values, domain.OptionValue{Name: v})
		}
		product.Options = append(product.Options, opt)
	}

	return product
}

// NormalizeVariation keeps only what variant resolution needs.
func NormalizeVariation(raw wcVariation) domain.Variation {
	v := domain.Variation{ID: raw.ID}
	for _, a := range raw.Attributes {
		v.Attributes = append(v.Attributes, domain.VariationAttribute{Name: a.Name, Option: a.Option})
	}
	if raw.Image != nil {
		v.ImageURL = strings.TrimSpace(raw.Image.Src)
	}
	return v
}

// NormalizeArticle converts one WordPress post (with _embed) into an article.
func NormalizeArticle(post gjson.Result) domain.Article {
	article := domain.Article{
		ID:      int(post.Get("id").Int()),
		Title:   StripHTML(post.Get("title.rendered").String()),
		Excerpt: StripHTML(post.Get("excerpt.rendered").String()),
		Image:   PlaceholderArticle,
		Content: sanitize.HTML(post.Get("content.rendered").String()),
	}

	// WordPress emits the site-local publish time without a zone.
	raw := post.Get("date").String()
	if ts, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		article.Date = ts.Format(articleDateLayout)
	} else if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		article.Date = ts.Format(articleDateLayout)
	} else if raw != "" {
		log.Debugf("Unparseable post date %q for post %d", raw, article.ID)
		article.Date = raw
	}

	if src := post.Get(`_embedded.wp:featuredmedia.0.source_url`).String(); src != "" {
		article.Image = src
	}

	return article
}

// StripHTML returns the visible text of an HTML fragment with whitespace collapsed.
func StripHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		log.Warnf("Failed to parse HTML fragment, keeping raw text: %v", err)
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func tagline(short string) string {
	if short == "" {
		return DefaultTagline
	}
	if utf8.RuneCountInString(short) > taglineLimit {
		short = string([]rune(short)[:taglineLimit])
	}
	return short + "..."
}

func parsePrice(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		log.Debugf("Invalid price %q, defaulting to 0", raw)
		return decimal.Zero
	}
	return price
}

func gallery(images []wcImage) []string {
	seen := make(map[string]struct{}, len(images))
	out := make([]string, 0, len(images))
	for _, img := range images {
		src := strings.TrimSpace(img.Src)
		if src == "" {
			continue
		}
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}

func features(attrs []wcAttribute) []string {
	for _, a := range attrs {
		if a.Name == featureAttrPrimary || a.Name == featureAttrFallback {
			return append([]string(nil), a.Options...)
		}
	}
	return append([]string(nil), DefaultFeatures...)
}
