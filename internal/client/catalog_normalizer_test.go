package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestNormalizeProductDefaults(t *testing.T) {
	p := NormalizeProduct(wcProduct{ID: "7", Name: "Bare"})

	require.Equal(t, "7", p.ID)
	require.Equal(t, DefaultTagline, p.Tagline)
	require.Equal(t, DefaultCategory, p.Category)
	require.Equal(t, PlaceholderImage, p.ImageURL)
	require.Equal(t, []string{PlaceholderImage}, p.Gallery)
	require.Equal(t, DefaultFeatures, p.Features)
	require.True(t, p.Price.IsZero())
	require.False(t, p.HasVariants)
	require.Empty(t, p.Options)
}

func TestNormalizeProductFull(t *testing.T) {
	raw := wcProduct{
		ID:               "42",
		Name:             "Elysian Timepiece No. 7",
		ShortDescription: "<p>Sapphire crystal &amp; <strong>Swiss</strong> movement.</p>",
		Description:      "<p>A timepiece that transcends trends.</p>",
		Price:            "2400.50",
		Categories:       []wcCategoryRef{{Name: "Watches"}, {Name: "Gifts"}},
		Images: []wcImage{
			{Src: "https://cdn.example.com/a.jpg"},
			{Src: "https://cdn.example.com/b.jpg"},
			{Src: "https://cdn.example.com/a.jpg"},
			{Src: ""},
		},
		Attributes: []wcAttribute{
			{Name: "Details", Options: []string{"Swiss Quartz", "5ATM"}},
			{Name: "Strap", Variation: true, Options: []string{"Nude Leather", "Ivory Silk"}},
			{Name: "Material", Options: []string{"Ceramic"}},
		},
		Variations: []int{101, 102},
	}

	p := NormalizeProduct(raw)

	require.Equal(t, "Sapphire crystal & Swiss movement.", p.Description)
	require.Equal(t, "Sapphire crystal & Swiss movement....", p.Tagline)
	require.Equal(t, "A timepiece that transcends trends.", p.LongDescription)
	require.Equal(t, "2400.5", p.Price.String())
	require.Equal(t, "Watches", p.Category)
	require.Equal(t, []string{"Watches", "Gifts"}, p.Categories)
	require.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, p.Gallery)
	require.Equal(t, p.Gallery[0], p.ImageURL)
	require.Equal(t, []string{"Swiss Quartz", "5ATM"}, p.Features)
	require.True(t, p.HasVariants)
	require.Len(t, p.Options, 1)
	require.Equal(t, "Strap", p.Options[0].Name)
	require.Equal(t, "Ivory Silk", p.Options[0].Values[1].Name)
	require.Empty(t, p.Options[0].Values[1].Image)
}

func TestNormalizeProductTaglineTruncation(t *testing.T) {
	long := strings.Repeat("é", 80)
	p := NormalizeProduct(wcProduct{ShortDescription: "<p>" + long + "</p>"})

	require.Equal(t, strings.Repeat("é", 60)+"...", p.Tagline)
	require.Equal(t, long, p.Description)
}

func TestNormalizeProductInvalidPrice(t *testing.T) {
	p := NormalizeProduct(wcProduct{Price: "call us"})
	require.True(t, p.Price.IsZero())
}

func TestNormalizeArticle(t *testing.T) {
	post := gjson.Parse(`{
		"id": 12,
		"date": "2025-05-15T09:30:00",
		"title": {"rendered": "The Art of <em>Curating</em> Elegance"},
		"excerpt": {"rendered": "<p>Exploring luxury &amp; art.</p>"},
		"content": {"rendered": "<p>Body</p><script>alert(1)</script>"},
		"_embedded": {"wp:featuredmedia": [{"source_url": "https://cdn.example.com/cover.jpg"}]}
	}`)

	a := NormalizeArticle(post)

	require.Equal(t, 12, a.ID)
	require.Equal(t, "The Art of Curating Elegance", a.Title)
	require.Equal(t, "May 15, 2025", a.Date)
	require.Equal(t, "Exploring luxury & art.", a.Excerpt)
	require.Equal(t, "https://cdn.example.com/cover.jpg", a.Image)
	require.Equal(t, "<p>Body</p>", a.Content)
}

func TestNormalizeArticleWithoutMedia(t *testing.T) {
	a := NormalizeArticle(gjson.Parse(`{"id": 3, "title": {"rendered": "Plain"}}`))
	require.Equal(t, PlaceholderArticle, a.Image)
	require.Empty(t, a.Date)
}

func TestNormalizeVariation(t *testing.T) {
	v := NormalizeVariation(wcVariation{
		ID:         9,
		Attributes: []wcVariationAttribute{{Name: "pa_strap", Option: "ivory silk"}},
		Image:      &wcImage{Src: " https://cdn.example.com/silk.jpg "},
	})
	require.Equal(t, "https://cdn.example.com/silk.jpg", v.ImageURL)
	require.Equal(t, "pa_strap", v.Attributes[0].Name)

	require.Empty(t, NormalizeVariation(wcVariation{ID: 1}).ImageURL)
}

func TestStripHTML(t *testing.T) {
	require.Equal(t, "", StripHTML("  "))
	require.Equal(t, "a b", StripHTML("<div>a\n\n   <span>b</span></div>"))
}
