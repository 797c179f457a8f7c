package sources

import (
	"context"
	"log"
	"net/http"
)

// BuildOptions tunes adapter construction.
type BuildOptions struct {
	// Transport overrides the HTTP transport on every adapter, for tests.
	Transport http.RoundTripper
	// ForceMock skips connectivity probes and arms mock data everywhere.
	ForceMock bool
}

// BuildAdapters constructs all adapters from the registry. Each source is
// probed once at startup; a source whose probe fails is rebuilt with mock
// data armed so the hub stays usable when an upstream is down or a key is
// missing.
func BuildAdapters(ctx context.Context, reg *Registry, opts BuildOptions) map[SourceKey]DataSource {
	build := func(useMock bool) map[SourceKey]DataSource {
		return map[SourceKey]DataSource{
			SourceSenate:    NewSenateSource(reg.Senate, reg.HTTP, opts.Transport, useMock),
			SourceNYC:       NewNYCSource(reg.NYC, reg.HTTP, opts.Transport, useMock),
			SourceCheckbook: NewCheckbookSource(reg.Checkbook, reg.HTTP, opts.Transport, useMock),
		}
	}

	if opts.ForceMock {
		log.Print("[Sources] Mock data forced for all sources")
		return build(true)
	}

	adapters := build(false)
	for key, src := range adapters {
		status := src.TestConnection(ctx)
		if status.OK() {
			log.Printf("[Sources] %s: %s", src.Name(), status.Message)
			continue
		}
		log.Printf("[Sources] %s unavailable (%s), falling back to mock data", src.Name(), status.Message)
		switch key {
		case SourceSenate:
			adapters[key] = NewSenateSource(reg.Senate, reg.HTTP, opts.Transport, true)
		case SourceNYC:
			adapters[key] = NewNYCSource(reg.NYC, reg.HTTP, opts.Transport, true)
		case SourceCheckbook:
			adapters[key] = NewCheckbookSource(reg.Checkbook, reg.HTTP, opts.Transport, true)
		}
	}
	return adapters
}
