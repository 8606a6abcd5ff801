package cron

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pixelforge/gamestore-backend/internal/catalog"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
	"github.com/pixelforge/gamestore-backend/pkg/metrics"
)

const lowStockJobName = "low-stock-scan"

type lowStockLister interface {
	LowStock(ctx context.Context) ([]catalog.Product, error)
}

type lowStockGauge interface {
	SetLowStock(items []metrics.LowStockItem)
}

// LowStockJobParams configure the low stock scan.
type LowStockJobParams struct {
	Logger  *logger.Logger
	Catalog lowStockLister
	Gauge   lowStockGauge
}

type lowStockJob struct {
	logg    *logger.Logger
	catalog lowStockLister
	gauge   lowStockGauge
}

// NewLowStockJob builds the job that reports games running out of keys.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	return &lowStockJob{logg: params.Logger, catalog: params.Catalog, gauge: params.Gauge}, nil
}

func (j *lowStockJob) Name() string { return lowStockJobName }

func (j *lowStockJob) Run(ctx context.Context) error {
	games, err := j.catalog.LowStock(ctx)
	if err != nil {
		return fmt.Errorf("list low stock: %w", err)
	}

	samples := make([]metrics.LowStockItem, 0, len(games))
	for _, game := range games {
		samples = append(samples, metrics.LowStockItem{
			GameID: strconv.Itoa(game.ID),
			Title:  game.Title,
			Stock:  game.Stock,
		})
		alertCtx := j.logg.WithFields(ctx, map[string]any{
			"game_id": game.ID,
			"title":   game.Title,
			"stock":   game.Stock,
		})
		j.logg.Warn(alertCtx, "game stock is low")
	}
	if j.gauge != nil {
		j.gauge.SetLowStock(samples)
	}
	j.logg.Info(j.logg.WithField(ctx, "low_stock_games", len(games)), "low stock scan finished")
	return nil
}
