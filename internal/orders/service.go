package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelforge/gamestore-backend/pkg/db/models"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// Service exposes shopper order history and admin order management.
type Service interface {
	History(ctx context.Context, shopperID uuid.UUID, status string) (*History, error)
	Get(ctx context.Context, shopperID uuid.UUID, id string) (*Order, error)
	Invoice(ctx context.Context, shopperID uuid.UUID, id string) (string, error)
	AdminList(ctx context.Context, status string) ([]Order, error)
	Transition(ctx context.Context, id string, action enums.OrderAction) (*Order, error)
}

// TransitionObserver is told about every applied admin transition.
type TransitionObserver interface {
	ObserveOrderTransition(action string, to string)
}

type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Stock    StockBinder
	Keys     KeyGenerator
	Invoices InvoiceRenderer
	Observer TransitionObserver
	Now      func() time.Time
}

type service struct {
	repo     Repository
	tx       txRunner
	stock    StockBinder
	keys     KeyGenerator
	invoices InvoiceRenderer
	observer TransitionObserver
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock binder required")
	}
	keys := params.Keys
	if keys == nil {
		keys = RandomKeys{}
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		stock:    params.Stock,
		keys:     keys,
		invoices: params.Invoices,
		observer: params.Observer,
		now:      now,
	}, nil
}

// ParseStatusFilter maps "", "all" or a status name to a repository filter.
func ParseStatusFilter(raw string) (*enums.OrderStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == StatusAll {
		return nil, nil
	}
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return &status, nil
}

func (s *service) History(ctx context.Context, shopperID uuid.UUID, status string) (*History, error) {
	filter, err := ParseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByShopper(ctx, shopperID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	all := make([]Order, 0, len(rows))
	filtered := make([]Order, 0, len(rows))
	for _, row := range rows {
		order := FromModel(row)
		all = append(all, order)
		if filter == nil || order.Status == *filter {
			filtered = append(filtered, order)
		}
	}
	return &History{Orders: filtered, Summary: summarize(all)}, nil
}

func (s *service) Get(ctx context.Context, shopperID uuid.UUID, id string) (*Order, error) {
	row, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	// other shoppers' orders look missing
	if row.ShopperID != shopperID {
		return nil, notFound(id)
	}
	order := FromModel(*row)
	return &order, nil
}

func (s *service) Invoice(ctx context.Context, shopperID uuid.UUID, id string) (string, error) {
	order, err := s.Get(ctx, shopperID, id)
	if err != nil {
		return "", err
	}
	return s.invoices.Render(*order), nil
}

func (s *service) AdminList(ctx context.Context, status string) ([]Order, error) {
	filter, err := ParseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// Transition applies an admin action. Fulfilling takes stock for every line and
// issues the license key.
func (s *service) Transition(ctx context.Context, id string, action enums.OrderAction) (*Order, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}

		to, err := nextStatus(row.Status, action)
		if err != nil {
			return err
		}

		key := ""
		if action == enums.OrderActionFulfill {
			if err := s.takeStock(ctx, tx, row.Items); err != nil {
				return err
			}
			if key, err = s.keys.NewKey(); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue license key")
			}
		}

		n, err := repo.UpdateStatus(ctx, id, row.Status, to, key, s.now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if n == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("order %s changed concurrently", id))
		}

		updated, err = s.load(ctx, repo, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.observer != nil {
		s.observer.ObserveOrderTransition(string(action), string(updated.Status))
	}
	order := FromModel(*updated)
	return &order, nil
}

func (s *service) takeStock(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	stock := s.stock(tx)
	for _, it := range items {
		ok, err := stock.TakeStock(ctx, it.GameID, it.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "take stock")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("not enough keys in stock for %s", it.Title)).
				WithDetails(map[string]any{"game_id": it.GameID, "quantity": it.Quantity})
		}
	}
	return nil
}

// nextStatus is the admin transition table.
func nextStatus(from enums.OrderStatus, action enums.OrderAction) (enums.OrderStatus, error) {
	var to enums.OrderStatus
	allowed := false
	switch action {
	case enums.OrderActionFulfill:
		to, allowed = enums.OrderStatusCompleted, from == enums.OrderStatusProcessing
	case enums.OrderActionRefund:
		to, allowed = enums.OrderStatusRefunded, from == enums.OrderStatusProcessing || from == enums.OrderStatusCompleted
	case enums.OrderActionCancel:
		to, allowed = enums.OrderStatusCancelled, from == enums.OrderStatusProcessing
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order action %q", action))
	}
	if !allowed {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot %s an order that is %s", action, from)).
			WithDetails(map[string]any{"status": from, "action": action})
	}
	return to, nil
}

func (s *service) load(ctx context.Context, repo Repository, id string) (*models.Order, error) {
	row, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return row, nil
}

func notFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", id))
}
