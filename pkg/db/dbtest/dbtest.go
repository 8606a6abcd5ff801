// Package dbtest opens throwaway sqlite databases with the storefront schema
// and seed data applied.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pixelforge/gamestore-backend/pkg/config"
	"github.com/pixelforge/gamestore-backend/pkg/db"
	"github.com/pixelforge/gamestore-backend/pkg/migrate"
)

// DemoShopper is the seeded shopper that owns the demo cart, wishlist and orders.
var DemoShopper = uuid.MustParse("00000000-0000-4000-8000-000000000001")

// Open returns a migrated client backed by a private in-memory database.
func Open(t *testing.T) *db.Client {
	t.Helper()

	cfg := config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	client, err := db.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := migrate.Up(context.Background(), sqlDB, client.Dialect(), migrate.Embedded()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return client
}
