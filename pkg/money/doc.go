// Package money represents monetary amounts as integer minor units of an ISO 4217 currency.
//
// Arithmetic never mixes currencies and never loses minor units: Add and Sub
// fail with ErrCurrencyMismatch, Allocate distributes remainders explicitly.
//
//	price := money.MustParse("19.99", "EUR")
//	total, err := price.Multiply(3)
//	fmt.Println(total)                         // 59.97 EUR
//	fmt.Println(total.Format(language.German)) // localized, with the euro sign
package money
