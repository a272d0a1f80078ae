package currency

import "github.com/isomaug/impelatradingcc/internal/domain"

// ReferenceCurrency is the code all catalog prices are stored in.
const ReferenceCurrency = "ZAR"

// Descriptor drives formatting for one currency. DecimalPlaces 0 marks a
// whole-unit currency, conventionally shown without cents.
type Descriptor struct {
	Code          string `json:"code"`
	Symbol        string `json:"symbol"`
	DecimalPlaces int    `json:"decimalPlaces"`
}

// Descriptors covers the supported currency set. The shilling and franc
// currencies are whole-unit.
var Descriptors = map[string]Descriptor{
	"ZAR": {Code: "ZAR", Symbol: "R", DecimalPlaces: 2},
	"USD": {Code: "USD", Symbol: "$", DecimalPlaces: 2},
	"EUR": {Code: "EUR", Symbol: "€", DecimalPlaces: 2},
	"KES": {Code: "KES", Symbol: "KSh ", DecimalPlaces: 0},
	"UGX": {Code: "UGX", Symbol: "UGX ", DecimalPlaces: 0},
	"TZS": {Code: "TZS", Symbol: "TSh ", DecimalPlaces: 0},
	"RWF": {Code: "RWF", Symbol: "FRw ", DecimalPlaces: 0},
	"BIF": {Code: "BIF", Symbol: "FBu ", DecimalPlaces: 0},
}

// DefaultRates is the built-in table used until a refresh succeeds.
func DefaultRates() domain.RateTable {
	return domain.RateTable{
		"ZAR": 1,
		"USD": 0.054,
		"EUR": 0.050,
		"KES": 7.0,
		"UGX": 205.0,
		"TZS": 140.0,
		"RWF": 70.0,
		"BIF": 155.0,
	}
}
