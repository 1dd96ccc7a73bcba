package model

// Ticker identifies a specific tradable contract by symbol and exchange.
// Equality is value equality on both fields, case-sensitive; nothing in the
// store depends on pointer identity.
type Ticker struct {
	Symbol   string
	Exchange string
}

// Product identifies the tradable class a ticker belongs to, e.g. every
// monthly contract of one commodity. It is derived from a ticker by
// stripping the trailing run of digits from the symbol.
type Product struct {
	Symbol   string
	Exchange string
}

// Instrument is either a Ticker or a Product. It is a sealed sum type:
// the bar-data resolver type-switches over it.
type Instrument interface {
	Name() string
	instrument()
}

func (Ticker) instrument()  {}
func (Product) instrument() {}

// Name returns the canonical "symbol.exchange" form, or just the symbol
// when the exchange is empty.
func (t Ticker) Name() string {
	if t.Exchange == "" {
		return t.Symbol
	}
	return t.Symbol + "." + t.Exchange
}

func (p Product) Name() string {
	if p.Exchange == "" {
		return p.Symbol
	}
	return p.Symbol + "." + p.Exchange
}

func (t Ticker) String() string { return "Ticker:" + t.Name() }

func (p Product) String() string { return "Product:" + p.Name() }

// Product derives the ticker's product by stripping the trailing digit run
// from the symbol. The derivation is pure and total: a symbol with no
// trailing digits maps to a product with the identical symbol.
func (t Ticker) Product() Product {
	return Product{Symbol: productSymbol(t.Symbol), Exchange: t.Exchange}
}

func productSymbol(symbol string) string {
	i := len(symbol)
	for i > 0 && symbol[i-1] >= '0' && symbol[i-1] <= '9' {
		i--
	}
	return symbol[:i]
}

// ParseName splits an instrument name on the last dot: "rb2410.SHFE" yields
// ("rb2410", "SHFE"). A name with no dot is all symbol with an empty
// exchange. Malformed names are accepted verbatim; the split never fails.
func ParseName(name string) (symbol, exchange string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}

// TickerFromName builds a Ticker from its canonical name.
func TickerFromName(name string) Ticker {
	symbol, exchange := ParseName(name)
	return Ticker{Symbol: symbol, Exchange: exchange}
}

// ProductFromName builds a Product from its canonical name. No digit
// stripping is applied; the name is taken as a product symbol as-is.
func ProductFromName(name string) Product {
	symbol, exchange := ParseName(name)
	return Product{Symbol: symbol, Exchange: exchange}
}
