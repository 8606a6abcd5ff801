package checkout

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelforge/gamestore-backend/internal/cart"
	"github.com/pixelforge/gamestore-backend/internal/catalog"
	"github.com/pixelforge/gamestore-backend/internal/orders"
	"github.com/pixelforge/gamestore-backend/internal/pricing"
	"github.com/pixelforge/gamestore-backend/pkg/db/models"
	dbtypes "github.com/pixelforge/gamestore-backend/pkg/db/types"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
)

// MultiplePlatforms labels orders whose lines span platforms.
const MultiplePlatforms = "Multiple"

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Observer is told about every placed order.
type Observer interface {
	ObserveCheckout(status string, total float64)
}

// Service turns a shopper's cart into an order.
type Service interface {
	Checkout(ctx context.Context, shopperID uuid.UUID, input Input) (*Receipt, error)
}

// Input is the checkout form.
type Input struct {
	Email         string
	PaymentMethod string
}

// Receipt is what the shopper gets back after checkout.
type Receipt struct {
	Order     orders.Order `json:"order"`
	Invoice   string       `json:"invoice"`
	EmailSent bool         `json:"email_sent"`
}

type ServiceParams struct {
	Carts    *cart.Repository
	Games    *catalog.Repository
	Orders   orders.Repository
	Tx       txRunner
	Engine   pricing.Engine
	Keys     orders.KeyGenerator
	Invoices orders.InvoiceRenderer
	Mailer   Mailer
	Observer Observer
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	carts    *cart.Repository
	games    *catalog.Repository
	orders   orders.Repository
	tx       txRunner
	engine   pricing.Engine
	keys     orders.KeyGenerator
	invoices orders.InvoiceRenderer
	mailer   Mailer
	observer Observer
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil || params.Games == nil || params.Orders == nil {
		return nil, fmt.Errorf("cart, catalog and order repositories required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	svc := &service{
		carts:    params.Carts,
		games:    params.Games,
		orders:   params.Orders,
		tx:       params.Tx,
		engine:   params.Engine,
		keys:     params.Keys,
		invoices: params.Invoices,
		mailer:   params.Mailer,
		observer: params.Observer,
		logg:     params.Logger,
		now:      params.Now,
	}
	if svc.keys == nil {
		svc.keys = orders.RandomKeys{}
	}
	if svc.mailer == nil {
		svc.mailer = LogMailer{Logger: params.Logger}
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// Validate normalizes the checkout form.
func (in Input) Validate() (string, enums.PaymentMethod, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "please enter your email")
	}
	if !emailPattern.MatchString(email) {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "please enter a valid email")
	}
	method, err := enums.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return email, method, nil
}

// Checkout prices the stored cart, reserves keys when every line is in stock,
// records the order and empties the cart. Orders that cannot be filled stay
// processing until an admin fulfills them.
func (s *service) Checkout(ctx context.Context, shopperID uuid.UUID, input Input) (*Receipt, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}
	email, method, err := input.Validate()
	if err != nil {
		return nil, err
	}

	var placed *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		games := s.games.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		current, err := carts.Load(ctx, shopperID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if current.IsEmpty() {
			return pkgerrors.New(pkgerrors.CodeValidation, "your cart is empty")
		}

		priced, err := s.engine.Price(current.PricingLines(), current.PromoCode)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}

		wanted := quantitiesByGame(current)
		inStock, err := s.checkStock(ctx, games, wanted)
		if err != nil {
			return err
		}

		status := enums.OrderStatusProcessing
		key := ""
		if inStock {
			if err := takeStock(ctx, games, wanted); err != nil {
				return err
			}
			if key, err = s.keys.NewKey(); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue license key")
			}
			status = enums.OrderStatusCompleted
		}

		id, err := orderRepo.NextID(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next order id")
		}

		placed = buildOrder(id, shopperID, email, method, status, key, current, priced.Rounded(), s.now().UTC())
		if err := orderRepo.Create(ctx, placed); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := carts.Save(ctx, shopperID, current.Clear()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order := orders.FromModel(*placed)
	invoice := s.invoices.Render(order)

	ctx = s.logg.WithOrderID(ctx, order.ID)
	sent := true
	if err := s.mailer.SendOrderConfirmation(ctx, order, invoice); err != nil {
		sent = false
		s.logg.Warn(ctx, fmt.Sprintf("order confirmation not sent: %v", err))
	}
	if s.observer != nil {
		s.observer.ObserveCheckout(string(order.Status), order.Total.InexactFloat64())
	}
	s.logg.Info(ctx, "order placed")

	return &Receipt{Order: order, Invoice: invoice, EmailSent: sent}, nil
}

func quantitiesByGame(c cart.Cart) map[int]int {
	wanted := make(map[int]int, len(c.Lines))
	for _, line := range c.Lines {
		wanted[line.GameID] += line.Quantity
	}
	return wanted
}

func sortedIDs(wanted map[int]int) []int {
	ids := make([]int, 0, len(wanted))
	for id := range wanted {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *service) checkStock(ctx context.Context, games *catalog.Repository, wanted map[int]int) (bool, error) {
	ids := sortedIDs(wanted)
	found, err := games.FindByIDs(ctx, ids)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load games")
	}
	inStock := true
	for _, id := range ids {
		game, ok := found[id]
		if !ok {
			return false, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("game %d is no longer available", id)).
				WithDetails(map[string]any{"game_id": id})
		}
		if game.Stock < wanted[id] {
			inStock = false
		}
	}
	return inStock, nil
}

func takeStock(ctx context.Context, games *catalog.Repository, wanted map[int]int) error {
	for _, id := range sortedIDs(wanted) {
		ok, err := games.TakeStock(ctx, id, wanted[id])
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "take stock")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("stock for game %d changed during checkout", id))
		}
	}
	return nil
}

func buildOrder(
	id string,
	shopperID uuid.UUID,
	email string,
	method enums.PaymentMethod,
	status enums.OrderStatus,
	key string,
	c cart.Cart,
	priced pricing.Result,
	now time.Time,
) *models.Order {
	items := make([]models.OrderItem, 0, len(c.Lines))
	titles := make(dbtypes.StringArray, 0, len(c.Lines))
	platform := ""
	for i, line := range c.Lines {
		items = append(items, models.OrderItem{
			OrderID:   id,
			LineNo:    i + 1,
			GameID:    line.GameID,
			Title:     line.Title,
			Platform:  line.Platform,
			UnitPrice: line.UnitPrice,
			Discount:  line.Discount,
			Quantity:  line.Quantity,
		})
		titles = append(titles, line.Title)
		switch {
		case platform == "":
			platform = line.Platform
		case platform != line.Platform:
			platform = MultiplePlatforms
		}
	}

	return &models.Order{
		ID:                 id,
		ShopperID:          shopperID,
		CustomerEmail:      email,
		PaymentMethod:      method,
		Status:             status,
		Platform:           platform,
		Games:              titles,
		ItemCount:          c.ItemCount(),
		Subtotal:           priced.Subtotal,
		ItemDiscountTotal:  priced.ItemDiscountTotal,
		PromoCode:          priced.PromoCode,
		PromoDiscountTotal: priced.PromoDiscountTotal,
		Shipping:           priced.Shipping,
		Tax:                priced.Tax,
		Total:              priced.Total,
		LicenseKey:         key,
		Items:              items,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
