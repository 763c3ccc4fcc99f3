package variant

import (
	"testing"

	"elysoir/storefront/internal/domain"

	"github.com/stretchr/testify/require"
)

func strapOptions() []domain.Option {
	return []domain.Option{{
		Name: "Strap",
		Values: []domain.OptionValue{
			{Name: "Black Alligator"},
			{Name: "Nude Leather"},
			{Name: "Steel"},
		},
	}}
}

func TestResolveMatchesPrefixAndCase(t *testing.T) {
	variations := []domain.Variation{
		{ID: 1, Attributes: []domain.VariationAttribute{{Name: "pa_strap", Option: "black alligator"}}, ImageURL: "https://img/black.jpg"},
		{ID: 2, Attributes: []domain.VariationAttribute{{Name: "STRAP", Option: "Nude Leather"}}, ImageURL: "https://img/nude.jpg"},
		{ID: 3, Attributes: []domain.VariationAttribute{{Name: "Strap", Option: "Steel"}}},
	}
	options := strapOptions()

	got := Resolve(options, variations)

	require.Equal(t, "https://img/black.jpg", got[0].Values[0].Image)
	require.Equal(t, "https://img/nude.jpg", got[0].Values[1].Image)
	require.Empty(t, got[0].Values[2].Image)
	require.Empty(t, options[0].Values[0].Image, "input untouched")
}

func TestResolveFirstVariationWins(t *testing.T) {
	variations := []domain.Variation{
		{ID: 1, Attributes: []domain.VariationAttribute{{Name: "Strap", Option: "Steel"}}, ImageURL: "first.jpg"},
		{ID: 2, Attributes: []domain.VariationAttribute{{Name: "Strap", Option: "Steel"}}, ImageURL: "second.jpg"},
	}
	got := Resolve(strapOptions(), variations)
	require.Equal(t, "first.jpg", got[0].Values[2].Image)
}

func TestResolveFirstMatchWithoutImageKeepsPrior(t *testing.T) {
	options := strapOptions()
	options[0].Values[2].Image = "prior.jpg"
	variations := []domain.Variation{
		{ID: 1, Attributes: []domain.VariationAttribute{{Name: "Strap", Option: "Steel"}}},
		{ID: 2, Attributes: []domain.VariationAttribute{{Name: "pa_strap", Option: "steel"}}, ImageURL: "second.jpg"},
	}

	got := Resolve(options, variations)
	require.Equal(t, "prior.jpg", got[0].Values[2].Image)
	require.Empty(t, Resolve(strapOptions(), variations)[0].Values[2].Image)
}

func TestResolveOverridesPriorImage(t *testing.T) {
	options := strapOptions()
	options[0].Values[2].Image = "old.jpg"
	options[0].Values[1].Image = "kept.jpg"
	variations := []domain.Variation{
		{Attributes: []domain.VariationAttribute{{Name: "Strap", Option: "Steel"}}, ImageURL: "new.jpg"},
	}

	got := Resolve(options, variations)
	require.Equal(t, "new.jpg", got[0].Values[2].Image)
	require.Equal(t, "kept.jpg", got[0].Values[1].Image)
}

func TestResolveIgnoresOtherAttributes(t *testing.T) {
	variations := []domain.Variation{
		{Attributes: []domain.VariationAttribute{{Name: "pa_color", Option: "Steel"}}, ImageURL: "color.jpg"},
	}
	got := Resolve(strapOptions(), variations)
	require.Empty(t, got[0].Values[2].Image)
	require.Nil(t, Resolve(nil, variations))
}

func TestTrackerLastWriteWins(t *testing.T) {
	tr := NewTracker()

	a := tr.Begin("a")
	require.True(t, tr.Current(a))

	b := tr.Begin("b")
	require.False(t, tr.Current(a))
	require.True(t, tr.Current(b))

	again := tr.Begin("a")
	require.False(t, tr.Current(a), "reselecting the same product issues a new generation")
	require.True(t, tr.Current(again))

	tr.Invalidate()
	require.False(t, tr.Current(again))
}
