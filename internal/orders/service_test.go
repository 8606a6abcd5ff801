package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pixelforge/gamestore-backend/internal/catalog"
	"github.com/pixelforge/gamestore-backend/pkg/db"
	"github.com/pixelforge/gamestore-backend/pkg/db/dbtest"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
)

type fixedKeys string

func (k fixedKeys) NewKey() (string, error) { return string(k), nil }

type transitions struct{ seen []string }

func (t *transitions) ObserveOrderTransition(action, to string) {
	t.seen = append(t.seen, action+"->"+to)
}

func newTestService(t *testing.T, observer TransitionObserver) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(client.DB()),
		Tx:       client,
		Stock:    func(tx *gorm.DB) StockTaker { return catalog.NewRepository(tx) },
		Keys:     fixedKeys("TEST-KEY0-0000-0001"),
		Invoices: InvoiceRenderer{TaxRate: decimal.RequireFromString("0.08")},
		Observer: observer,
		Now:      func() time.Time { return time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc, client
}

func orderIDs(orders []Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestHistoryNewestFirstWithSummary(t *testing.T) {
	svc, _ := newTestService(t, nil)
	h, err := svc.History(context.Background(), dbtest.DemoShopper, "all")
	require.NoError(t, err)

	require.Equal(t, []string{"ORD-78945", "ORD-78944", "ORD-78943", "ORD-78942", "ORD-78941", "ORD-78940"}, orderIDs(h.Orders))
	require.Equal(t, 6, h.Summary.TotalOrders)
	require.Equal(t, 3, h.Summary.CompletedOrders)
	require.True(t, h.Summary.TotalSpent.Equal(decimal.RequireFromString("199.96")), h.Summary.TotalSpent.String())
	require.True(t, h.Summary.AverageOrderValue.Equal(decimal.RequireFromString("66.65")), h.Summary.AverageOrderValue.String())
}

func TestHistoryStatusFilterKeepsFullSummary(t *testing.T) {
	svc, _ := newTestService(t, nil)
	h, err := svc.History(context.Background(), dbtest.DemoShopper, "Completed")
	require.NoError(t, err)
	require.Equal(t, []string{"ORD-78945", "ORD-78944", "ORD-78940"}, orderIDs(h.Orders))
	require.Equal(t, 6, h.Summary.TotalOrders)

	_, err = svc.History(context.Background(), dbtest.DemoShopper, "shipped")
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestGetHidesOtherShoppersOrders(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	order, err := svc.Get(ctx, dbtest.DemoShopper, "ORD-78944")
	require.NoError(t, err)
	require.Equal(t, []string{"Elden Ring"}, order.Games)

	_, err = svc.Get(ctx, uuid.New(), "ORD-78944")
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	_, err = svc.Get(ctx, dbtest.DemoShopper, "ORD-1")
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestInvoiceForSeededOrder(t *testing.T) {
	svc, _ := newTestService(t, nil)
	text, err := svc.Invoice(context.Background(), dbtest.DemoShopper, "ORD-78945")
	require.NoError(t, err)
	require.Contains(t, text, "TOTAL: $89.98")
	require.Contains(t, text, "- Cyberpunk 2077 (PC)")
}

func TestAdminListFilters(t *testing.T) {
	svc, _ := newTestService(t, nil)
	all, err := svc.AdminList(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 8)
	require.Equal(t, "ORD-10022", all[0].ID)

	processing, err := svc.AdminList(context.Background(), "processing")
	require.NoError(t, err)
	require.Equal(t, []string{"ORD-10021", "ORD-78943"}, orderIDs(processing))
}

func TestFulfillTakesStockAndIssuesKey(t *testing.T) {
	observer := &transitions{}
	svc, client := newTestService(t, observer)
	ctx := context.Background()

	order, err := svc.Transition(ctx, "ORD-10021", enums.OrderActionFulfill)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusCompleted, order.Status)
	require.Equal(t, "TEST-KEY0-0000-0001", order.LicenseKey)

	game, err := catalog.NewRepository(client.DB()).FindByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 3, game.Stock)

	_, err = svc.Transition(ctx, "ORD-10021", enums.OrderActionFulfill)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err))

	require.Equal(t, []string{"fulfill->completed"}, observer.seen)
}

func TestFulfillFailsWithoutStock(t *testing.T) {
	svc, client := newTestService(t, nil)
	ctx := context.Background()
	require.NoError(t, client.DB().Exec("UPDATE games SET stock = 0 WHERE id = 2").Error)

	_, err := svc.Transition(ctx, "ORD-10021", enums.OrderActionFulfill)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err))

	order, err := svc.AdminList(ctx, "processing")
	require.NoError(t, err)
	require.Contains(t, orderIDs(order), "ORD-10021")
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		name   string
		id     string
		action enums.OrderAction
		want   enums.OrderStatus
		code   pkgerrors.Code
	}{
		{name: "refund completed", id: "ORD-10022", action: enums.OrderActionRefund, want: enums.OrderStatusRefunded},
		{name: "refund processing", id: "ORD-78943", action: enums.OrderActionRefund, want: enums.OrderStatusRefunded},
		{name: "cancel processing", id: "ORD-10021", action: enums.OrderActionCancel, want: enums.OrderStatusCancelled},
		{name: "cancel completed", id: "ORD-78945", action: enums.OrderActionCancel, code: pkgerrors.CodeStateConflict},
		{name: "refund cancelled", id: "ORD-78942", action: enums.OrderActionRefund, code: pkgerrors.CodeStateConflict},
		{name: "refund refunded", id: "ORD-78941", action: enums.OrderActionRefund, code: pkgerrors.CodeStateConflict},
		{name: "fulfill completed", id: "ORD-78940", action: enums.OrderActionFulfill, code: pkgerrors.CodeStateConflict},
		{name: "missing order", id: "ORD-1", action: enums.OrderActionCancel, code: pkgerrors.CodeNotFound},
		{name: "unknown action", id: "ORD-10021", action: "ship", code: pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(t, nil)
			order, err := svc.Transition(context.Background(), tc.id, tc.action)
			if tc.code != "" {
				require.Equal(t, tc.code, pkgerrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, order.Status)
		})
	}
}

func TestNextIDFollowsLargestOrderNumber(t *testing.T) {
	_, client := newTestService(t, nil)
	id, err := NewRepository(client.DB()).NextID(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ORD-78946", id)
}
