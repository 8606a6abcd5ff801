package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelforge/gamestore-backend/internal/pricing"
	"github.com/pixelforge/gamestore-backend/pkg/db/models"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gameLoader interface {
	FindByID(ctx context.Context, id int) (*models.Game, error)
}

// Service manages per-shopper carts and quotes them.
type Service interface {
	Get(ctx context.Context, shopperID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, shopperID uuid.UUID, input AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, shopperID uuid.UUID, gameID int, platform string, quantity int) (*View, error)
	RemoveItem(ctx context.Context, shopperID uuid.UUID, gameID int, platform string) (*View, error)
	ApplyPromo(ctx context.Context, shopperID uuid.UUID, code string) (*View, error)
	ClearPromo(ctx context.Context, shopperID uuid.UUID) (*View, error)
	Quote(lines []pricing.Line, promoCode string) (pricing.Result, error)
	View(c Cart) (*View, error)
}

// AddItemInput adds quantity copies of a game for one platform. An empty
// platform picks the game's first platform; zero quantity means one.
type AddItemInput struct {
	GameID   int
	Platform string
	Quantity int
}

// View is a cart together with its display-rounded pricing.
type View struct {
	Lines     []Line         `json:"lines"`
	PromoCode string         `json:"promo_code,omitempty"`
	ItemCount int            `json:"item_count"`
	Pricing   pricing.Result `json:"pricing"`
}

type service struct {
	repo   *Repository
	tx     txRunner
	games  gameLoader
	engine pricing.Engine
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, games gameLoader, engine pricing.Engine) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if games == nil {
		return nil, fmt.Errorf("game loader required")
	}
	return &service{repo: repo, tx: tx, games: games, engine: engine}, nil
}

func (s *service) Get(ctx context.Context, shopperID uuid.UUID) (*View, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}
	c, err := s.repo.Load(ctx, shopperID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.View(c)
}

func (s *service) AddItem(ctx context.Context, shopperID uuid.UUID, input AddItemInput) (*View, error) {
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, ErrInvalidQuantity.Error())
	}

	// load outside the transaction; sqlite runs a single connection
	game, err := s.games.FindByID(ctx, input.GameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("game %d not found", input.GameID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load game")
	}

	platform, err := pickPlatform(game, input.Platform)
	if err != nil {
		return nil, err
	}

	line := Line{
		GameID:    game.ID,
		Platform:  platform,
		Title:     game.Title,
		UnitPrice: game.Price,
		Discount:  game.Discount,
		Quantity:  input.Quantity,
	}
	return s.mutate(ctx, shopperID, func(c Cart) (Cart, error) {
		return c.Add(line)
	})
}

func pickPlatform(game *models.Game, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		if len(game.Platforms) == 0 {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "game has no platforms")
		}
		return game.Platforms[0], nil
	}
	for _, p := range game.Platforms {
		if strings.EqualFold(p, requested) {
			return p, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is not available on %s", game.Title, requested)).
		WithDetails(map[string]any{"platforms": []string(game.Platforms)})
}

func (s *service) UpdateQuantity(ctx context.Context, shopperID uuid.UUID, gameID int, platform string, quantity int) (*View, error) {
	return s.mutate(ctx, shopperID, func(c Cart) (Cart, error) {
		key, err := c.Resolve(gameID, platform)
		if err != nil {
			return c, err
		}
		return c.SetQuantity(key, quantity)
	})
}

func (s *service) RemoveItem(ctx context.Context, shopperID uuid.UUID, gameID int, platform string) (*View, error) {
	return s.mutate(ctx, shopperID, func(c Cart) (Cart, error) {
		key, err := c.Resolve(gameID, platform)
		if err != nil {
			return c, err
		}
		return c.Remove(key)
	})
}

// ApplyPromo stores code on the cart when it resolves. Unknown codes leave the
// cart as it was.
func (s *service) ApplyPromo(ctx context.Context, shopperID uuid.UUID, code string) (*View, error) {
	normalized := pricing.NormalizeCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if _, err := s.engine.ResolvePromo(normalized); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePromoRejected, err, fmt.Sprintf("promo code %s not recognized", normalized)).
			WithDetails(map[string]any{"code": normalized})
	}
	return s.mutate(ctx, shopperID, func(c Cart) (Cart, error) {
		return c.WithPromo(normalized), nil
	})
}

func (s *service) ClearPromo(ctx context.Context, shopperID uuid.UUID) (*View, error) {
	return s.mutate(ctx, shopperID, func(c Cart) (Cart, error) {
		return c.WithPromo(""), nil
	})
}

// Quote prices an arbitrary line list without touching any stored cart.
func (s *service) Quote(lines []pricing.Line, promoCode string) (pricing.Result, error) {
	res, err := s.engine.Price(lines, promoCode)
	if err != nil {
		return pricing.Result{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return res, nil
}

// View prices c and rounds the result for display.
func (s *service) View(c Cart) (*View, error) {
	res, err := s.engine.Price(c.PricingLines(), c.PromoCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "price cart")
	}
	lines := c.Lines
	if lines == nil {
		lines = []Line{}
	}
	return &View{
		Lines:     lines,
		PromoCode: c.PromoCode,
		ItemCount: c.ItemCount(),
		Pricing:   res.Rounded(),
	}, nil
}

func (s *service) mutate(ctx context.Context, shopperID uuid.UUID, cmd func(Cart) (Cart, error)) (*View, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}

	var next Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.Load(ctx, shopperID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		next, err = cmd(current)
		if err != nil {
			return mapCartError(err)
		}
		if err := repo.Save(ctx, shopperID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.View(next)
}

func mapCartError(err error) error {
	switch {
	case errors.Is(err, ErrLineNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, err.Error())
	case errors.Is(err, ErrAmbiguousLine), errors.Is(err, ErrInvalidQuantity):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	default:
		return err
	}
}
