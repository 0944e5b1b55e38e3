package subscription

// Currency is one of the currencies the client lets users pick.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyMKD Currency = "MKD"
	CurrencyGBP Currency = "GBP"
)

var currencySymbols = map[Currency]string{
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyMKD: "ден",
	CurrencyGBP: "£",
}

// Symbol returns the display symbol, or the ISO code itself for unknown values.
func (c Currency) Symbol() string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return string(c)
}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	_, ok := currencySymbols[c]
	return ok
}
