package domain

// RateTable maps a currency code to the multiplier converting one unit of
// the reference currency into that currency. The reference currency's own
// entry is always exactly 1. Tables are replaced wholesale on refresh,
// never merged.
type RateTable map[string]float64

// Clone returns an independent copy so callers cannot mutate shared state.
func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	for code, rate := range t {
		out[code] = rate
	}
	return out
}

// Has reports whether code is a recognized currency in this table.
func (t RateTable) Has(code string) bool {
	_, ok := t[code]
	return ok
}
