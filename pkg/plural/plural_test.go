package plural_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/callkit/pkg/plural"
)

func TestRuleFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  language.Tag
		n    int
		want plural.Category
	}{
		{language.English, 0, plural.Other},
		{language.English, 1, plural.One},
		{language.English, -1, plural.One},
		{language.English, 2, plural.Other},
		{language.AmericanEnglish, 1, plural.One},
		{language.French, 0, plural.One},
		{language.French, 1, plural.One},
		{language.French, 2, plural.Other},
		{language.French, 1000000, plural.Many},
		{language.Spanish, 0, plural.Other},
		{language.Spanish, 1, plural.One},
		{language.Russian, 1, plural.One},
		{language.Russian, 21, plural.One},
		{language.Russian, 11, plural.Many},
		{language.Russian, 3, plural.Few},
		{language.Russian, 13, plural.Many},
		{language.Russian, 24, plural.Few},
		{language.Russian, 5, plural.Many},
		{language.Polish, 1, plural.One},
		{language.Polish, 21, plural.Many},
		{language.Polish, 22, plural.Few},
		{language.Czech, 3, plural.Few},
		{language.Czech, 5, plural.Other},
		{language.Arabic, 0, plural.Zero},
		{language.Arabic, 2, plural.Two},
		{language.Arabic, 5, plural.Few},
		{language.Arabic, 15, plural.Many},
		{language.Arabic, 100, plural.Other},
		{language.Japanese, 1, plural.Other},
		{language.Und, 1, plural.One},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, plural.RuleFor(tt.tag)(tt.n), "n=%d", tt.n)
		})
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	files := plural.Forms{
		One:   "файл",
		Few:   "файла",
		Many:  "файлов",
		Other: "файла",
	}

	assert.Equal(t, "файл", plural.Select(language.Russian, 1, files))
	assert.Equal(t, "файла", plural.Select(language.Russian, 2, files))
	assert.Equal(t, "файлов", plural.Select(language.Russian, 5, files))
	assert.Equal(t, "файлов", plural.Select(language.Russian, 0, files))

	items := plural.Forms{Zero: "no items", One: "one item", Other: "items"}
	assert.Equal(t, "no items", plural.Select(language.English, 0, items))
	assert.Equal(t, "one item", plural.Select(language.English, 1, items))
	assert.Equal(t, "items", plural.Select(language.English, 7, items))

	t.Run("missing variant falls back to other", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "items", plural.Select(language.Arabic, 2, items))
	})
}

func TestPluralize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "invoice", plural.Pluralize(1, "invoice", "invoices"))
	assert.Equal(t, "invoices", plural.Pluralize(0, "invoice", "invoices"))
	assert.Equal(t, "invoices", plural.Pluralize(3, "invoice", "invoices"))
}
