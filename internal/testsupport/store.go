package testsupport

import (
	"context"
	"testing"

	"cassprep/internal/config"
	"cassprep/internal/ledger"
)

// MustOpenLedger opens the configured ledger for tests and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(context.Background(), cfg.Paths.LedgerPath)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
