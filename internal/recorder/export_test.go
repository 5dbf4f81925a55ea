package recorder

import (
	"github.com/apicommand/apicommand/internal/client"
	"github.com/apicommand/apicommand/internal/store"
)

type (
	Fetcher   = fetcher
	Persister = persister
)

var (
	_ fetcher   = client.Client{}
	_ persister = store.Store{}
)

// WithFetcher sets the fetcher requests are sent through.
func WithFetcher(f Fetcher) Options {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithStore sets the store responses are recorded into.
func WithStore(s Persister) Options {
	return func(o *options) {
		o.store = s
	}
}
