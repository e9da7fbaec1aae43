// Package plural selects plural forms of messages using CLDR plural categories.
package plural
