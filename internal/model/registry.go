package model

import "sync"

// Registry interns instrument identities so that names parsed over and over
// during path resolution share one canonical value (and its backing
// strings). Interning is an optimization only: Ticker and Product compare
// by value, and nothing requires identities to come from a registry.
//
// A Registry is safe for concurrent use; resolution fans out across
// goroutines and interns from all of them.
type Registry struct {
	mu       sync.Mutex
	tickers  map[string]Ticker
	products map[string]Product
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tickers:  make(map[string]Ticker),
		products: make(map[string]Product),
	}
}

// Ticker interns and returns the identity for (symbol, exchange).
func (r *Registry) Ticker(symbol, exchange string) Ticker {
	t := Ticker{Symbol: symbol, Exchange: exchange}
	r.mu.Lock()
	defer r.mu.Unlock()
	if got, ok := r.tickers[t.Name()]; ok {
		return got
	}
	r.tickers[t.Name()] = t
	return t
}

// TickerFromName parses name on its last dot and interns the result.
func (r *Registry) TickerFromName(name string) Ticker {
	symbol, exchange := ParseName(name)
	return r.Ticker(symbol, exchange)
}

// Product interns and returns the identity for (symbol, exchange).
func (r *Registry) Product(symbol, exchange string) Product {
	p := Product{Symbol: symbol, Exchange: exchange}
	r.mu.Lock()
	defer r.mu.Unlock()
	if got, ok := r.products[p.Name()]; ok {
		return got
	}
	r.products[p.Name()] = p
	return p
}

// ProductFromName parses name on its last dot and interns the result.
func (r *Registry) ProductFromName(name string) Product {
	symbol, exchange := ParseName(name)
	return r.Product(symbol, exchange)
}

// ProductOf derives the ticker's product and interns it.
func (r *Registry) ProductOf(t Ticker) Product {
	p := t.Product()
	return r.Product(p.Symbol, p.Exchange)
}

// Size reports how many distinct tickers and products are interned.
func (r *Registry) Size() (tickers, products int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickers), len(r.products)
}
