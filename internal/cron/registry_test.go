package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixelforge/gamestore-backend/internal/catalog"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
)

func TestRegistryKeepsLowStockScanInOrder(t *testing.T) {
	lowStock, err := NewLowStockJob(LowStockJobParams{
		Logger:  logger.Nop(),
		Catalog: stubLowStock{games: []catalog.Product{{ID: 4, Title: "Starfield", Stock: 1}}},
	})
	require.NoError(t, err)
	reindex := &testJob{name: "catalog-reindex"}

	registry := NewRegistry(lowStock, nil)
	registry.Register(nil)
	registry.Register(reindex)

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	require.Equal(t, []string{"low-stock-scan", "catalog-reindex"}, []string{jobs[0].Name(), jobs[1].Name()})

	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatalf("registry exposed its job slice")
	}

	for _, job := range registry.Jobs() {
		require.NoError(t, job.Run(context.Background()))
	}
	require.Equal(t, 1, reindex.runs)
}
