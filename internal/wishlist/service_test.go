package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/gamestore-backend/internal/cart"
	"github.com/pixelforge/gamestore-backend/internal/catalog"
	"github.com/pixelforge/gamestore-backend/internal/pricing"
	"github.com/pixelforge/gamestore-backend/pkg/db/dbtest"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, cart.Service) {
	t.Helper()
	client := dbtest.Open(t)
	games := catalog.NewRepository(client.DB())
	carts, err := cart.NewService(cart.NewRepository(client.DB()), client, games, pricing.Default())
	require.NoError(t, err)
	svc, err := NewService(NewRepository(client.DB()), games, carts, func() time.Time {
		return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	})
	require.NoError(t, err)
	return svc, carts
}

func gameIDs(items []Item) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.Game.ID)
	}
	return out
}

func TestListSorts(t *testing.T) {
	svc, _ := newTestService(t)
	cases := map[string][]int{
		"":           {7, 8, 9, 10},
		"recent":     {7, 8, 9, 10},
		"price-low":  {8, 10, 7, 9},
		"price-high": {7, 9, 10, 8},
		"rating":     {9, 7, 10, 8},
	}
	for key, want := range cases {
		list, err := svc.List(context.Background(), dbtest.DemoShopper, key)
		require.NoError(t, err)
		require.Equal(t, want, gameIDs(list.Items), key)
	}

	_, err := svc.List(context.Background(), dbtest.DemoShopper, "alphabetical")
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestListSummary(t *testing.T) {
	svc, _ := newTestService(t)
	list, err := svc.List(context.Background(), dbtest.DemoShopper, "")
	require.NoError(t, err)
	require.Equal(t, 4, list.Summary.Count)
	require.Equal(t, 2, list.Summary.OnSaleCount)
	require.True(t, list.Summary.TotalValue.Equal(decimal.RequireFromString("269.96")), list.Summary.TotalValue.String())
	require.True(t, list.Summary.PotentialSavings.Equal(decimal.RequireFromString("16")), list.Summary.PotentialSavings.String())
}

func TestAddAndRemove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	shopper := uuid.New()

	item, err := svc.Add(ctx, shopper, 1, "")
	require.NoError(t, err)
	require.Equal(t, "PC", item.Platform)

	_, err = svc.Add(ctx, shopper, 1, "PC")
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))

	_, err = svc.Add(ctx, shopper, 9, "PC")
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.Add(ctx, shopper, 404, "")
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	require.NoError(t, svc.Remove(ctx, shopper, 1))
	err = svc.Remove(ctx, shopper, 1)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestMoveToCartKeepsWishlistItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.MoveToCart(ctx, dbtest.DemoShopper, 8)
	require.NoError(t, err)
	require.Len(t, view.Lines, 4)
	last := view.Lines[len(view.Lines)-1]
	require.Equal(t, 8, last.GameID)
	require.Equal(t, "PC", last.Platform)
	require.Equal(t, 15, last.Discount)

	list, err := svc.List(ctx, dbtest.DemoShopper, "")
	require.NoError(t, err)
	require.Len(t, list.Items, 4)

	_, err = svc.MoveToCart(ctx, dbtest.DemoShopper, 1)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestMoveAllToCart(t *testing.T) {
	svc, carts := newTestService(t)
	ctx := context.Background()

	res, err := svc.MoveAllToCart(ctx, dbtest.DemoShopper)
	require.NoError(t, err)
	require.Equal(t, []int{7, 8, 9, 10}, res.Moved)
	require.Empty(t, res.Skipped)

	view, err := carts.Get(ctx, dbtest.DemoShopper)
	require.NoError(t, err)
	require.Len(t, view.Lines, 7)
}
