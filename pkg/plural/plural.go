package plural

import (
	"golang.org/x/text/language"
)

// Category is a CLDR plural category.
type Category string

// Plural categories as defined by Unicode CLDR. Not all languages use all of them.
const (
	Zero  Category = "zero"
	One   Category = "one"
	Two   Category = "two"
	Few   Category = "few"
	Many  Category = "many"
	Other Category = "other"
)

// Rule maps an integer count to its plural category.
type Rule func(n int) Category

// Forms holds the message variants of one phrase. Other is required;
// empty variants fall back to Other.
type Forms struct {
	Zero  string
	One   string
	Two   string
	Few   string
	Many  string
	Other string
}

func (f Forms) get(c Category) string {
	var s string
	switch c {
	case Zero:
		s = f.Zero
	case One:
		s = f.One
	case Two:
		s = f.Two
	case Few:
		s = f.Few
	case Many:
		s = f.Many
	}
	if s == "" {
		return f.Other
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// English covers English and most Germanic languages: one (1), other.
var English Rule = func(n int) Category {
	if abs(n) == 1 {
		return One
	}
	return Other
}

// French treats 0 and 1 as singular: one (0, 1), many (millions), other.
var French Rule = func(n int) Category {
	a := abs(n)
	switch {
	case a <= 1:
		return One
	case a != 0 && a%1000000 == 0:
		return Many
	default:
		return Other
	}
}

// Romance covers Spanish, Italian and Portuguese (Portugal): one (1), many (millions), other.
var Romance Rule = func(n int) Category {
	a := abs(n)
	switch {
	case a == 1:
		return One
	case a%1000000 == 0 && a != 0:
		return Many
	default:
		return Other
	}
}

// EastSlavic covers Russian, Ukrainian, Belarusian and the Serbo-Croatian
// languages: one (1, 21, 31...), few (2-4, 22-24...), many.
var EastSlavic Rule = func(n int) Category {
	a := abs(n)
	mod10, mod100 := a%10, a%100
	switch {
	case mod10 == 1 && mod100 != 11:
		return One
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return Few
	default:
		return Many
	}
}

// Polish: one (1), few (2-4, 22-24...), many.
var Polish Rule = func(n int) Category {
	a := abs(n)
	mod10, mod100 := a%10, a%100
	switch {
	case a == 1:
		return One
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return Few
	default:
		return Many
	}
}

// WestSlavic covers Czech and Slovak: one (1), few (2-4), other.
var WestSlavic Rule = func(n int) Category {
	switch a := abs(n); {
	case a == 1:
		return One
	case a >= 2 && a <= 4:
		return Few
	default:
		return Other
	}
}

// Arabic: zero, one, two, few (3-10), many (11-99), other.
var Arabic Rule = func(n int) Category {
	a := abs(n)
	mod100 := a % 100
	switch {
	case a == 0:
		return Zero
	case a == 1:
		return One
	case a == 2:
		return Two
	case mod100 >= 3 && mod100 <= 10:
		return Few
	case mod100 >= 11:
		return Many
	default:
		return Other
	}
}

// Invariant covers languages without plural inflection (Japanese, Chinese, Korean...).
var Invariant Rule = func(int) Category {
	return Other
}

// RuleFor returns the rule of tag's base language.
// Unknown languages use English.
func RuleFor(tag language.Tag) Rule {
	base, _ := tag.Base()

	switch base.String() {
	case "en", "de", "nl", "sv", "no", "nb", "nn", "da", "fi", "et", "el", "hu", "tr", "bg":
		return English
	case "fr":
		return French
	case "es", "it", "pt", "ca":
		return Romance
	case "ru", "uk", "be", "hr", "sr", "bs":
		return EastSlavic
	case "pl":
		return Polish
	case "cs", "sk":
		return WestSlavic
	case "ar":
		return Arabic
	case "ja", "zh", "ko", "th", "vi", "id", "ms":
		return Invariant
	default:
		return English
	}
}

// Select picks the variant of forms for n in language tag.
// A non-empty Zero variant is used for 0 in every language.
//
// Example:
//
//	msg := plural.Select(language.Russian, 3, plural.Forms{
//	    One:   "%d файл",
//	    Few:   "%d файла",
//	    Many:  "%d файлов",
//	    Other: "%d файла",
//	})
func Select(tag language.Tag, n int, forms Forms) string {
	if n == 0 && forms.Zero != "" {
		return forms.Zero
	}
	return forms.get(RuleFor(tag)(n))
}

// Pluralize returns singular for a count of one and plural otherwise.
func Pluralize(n int, singular, plural string) string {
	if English(n) == One {
		return singular
	}
	return plural
}
