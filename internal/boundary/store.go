package boundary

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/urbanmetrics/housing-atlas/internal/config"
)

// Store loads the two boundary universes once and caches them for the
// process lifetime; geometry parsing is too expensive to repeat per
// request. Reload happens only through Invalidate.
type Store struct {
	cfg config.DataConfig

	mu   sync.Mutex
	cbsa *Set
	zcta *Set
}

// NewStore creates an unloaded boundary store.
func NewStore(cfg config.DataConfig) *Store {
	return &Store{cfg: cfg}
}

// NewStoreFromSets creates a store around already loaded sets; no disk
// access happens until Invalidate.
func NewStoreFromSets(cbsa, zcta *Set) *Store {
	return &Store{cbsa: cbsa, zcta: zcta}
}

// Load reads both universes, in parallel, unless already cached.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cbsa != nil && s.zcta != nil {
		return nil
	}

	var cbsa, zcta *Set
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cbsa, err = LoadCBSA(s.cfg)
		return err
	})
	g.Go(func() error {
		var err error
		zcta, err = LoadZCTA(s.cfg)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.cbsa = cbsa
	s.zcta = zcta
	return nil
}

// CBSA returns the cached metro boundary set, loading on first use.
func (s *Store) CBSA(ctx context.Context) (*Set, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cbsa, nil
}

// ZCTA returns the cached ZIP boundary set, loading on first use.
func (s *Store) ZCTA(ctx context.Context) (*Set, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zcta, nil
}

// Invalidate drops the cached sets so the next access reloads from disk.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cbsa = nil
	s.zcta = nil
}
