package fleet

import (
	"context"

	"github.com/five82/flotilla/internal/orchestrator"
	"github.com/five82/flotilla/internal/state"
)

// Fetcher retrieves fleet snapshots and records every outcome in a Store.
// It is safe to call from command goroutines.
type Fetcher struct {
	api   orchestrator.API
	store *state.Store
}

// NewFetcher wraps api. A nil store gets a private one.
func NewFetcher(api orchestrator.API, store *state.Store) *Fetcher {
	if store == nil {
		store = &state.Store{}
	}
	return &Fetcher{api: api, store: store}
}

// FetchContainers fetches the fleet. On failure the store keeps the previous
// snapshot and counts the failure.
func (f *Fetcher) FetchContainers(ctx context.Context) ([]orchestrator.Container, error) {
	containers, err := f.api.FetchContainers(ctx)
	f.store.Update(containers, err)
	if err != nil {
		return nil, err
	}
	return containers, nil
}

// FetchTemplates fetches the template catalog.
func (f *Fetcher) FetchTemplates(ctx context.Context) ([]orchestrator.Template, error) {
	templates, err := f.api.FetchTemplates(ctx)
	if err != nil {
		return nil, err
	}
	f.store.UpdateTemplates(templates)
	return templates, nil
}

// Snapshot returns the last recorded fetch state.
func (f *Fetcher) Snapshot() state.Snapshot {
	return f.store.Snapshot()
}
