package pricing

import "strings"

// Tier value object. AmountMinor is in the currency's smallest unit
// (cents, paise, pence), matching what the payment provider expects.
type Tier struct {
	Currency    string `json:"currency"`
	Symbol      string `json:"symbol"`
	AmountMinor int64  `json:"amount"`
	Display     string `json:"display"`
}

var defaultTier = Tier{Currency: "USD", Symbol: "$", AmountMinor: 299, Display: "$2.99"}

var tiers = map[string]Tier{
	"IN": {Currency: "INR", Symbol: "₹", AmountMinor: 15000, Display: "₹150"},
	"GB": {Currency: "GBP", Symbol: "£", AmountMinor: 249, Display: "£2.49"},
	"EU": {Currency: "EUR", Symbol: "€", AmountMinor: 299, Display: "€2.99"},
	"CA": {Currency: "CAD", Symbol: "CA$", AmountMinor: 399, Display: "CA$3.99"},
	"AU": {Currency: "AUD", Symbol: "AU$", AmountMinor: 449, Display: "AU$4.49"},
	"JP": {Currency: "JPY", Symbol: "¥", AmountMinor: 289, Display: "¥289"},
}

// Major Eurozone members that share the EU tier.
var eurozone = map[string]bool{
	"DE": true, "FR": true, "IT": true, "ES": true, "NL": true, "BE": true,
	"PT": true, "IE": true, "AT": true, "FI": true, "GR": true,
}

// Resolve maps a two-letter country code to a checkout tier.
// Order: exact match, Eurozone fallback, USD default.
func Resolve(countryCode string) Tier {
	cc := strings.ToUpper(strings.TrimSpace(countryCode))

	if t, ok := tiers[cc]; ok {
		return t
	}
	if eurozone[cc] {
		return tiers["EU"]
	}
	return defaultTier
}
