package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelforge/gamestore-backend/internal/cart"
	"github.com/pixelforge/gamestore-backend/internal/catalog"
	"github.com/pixelforge/gamestore-backend/pkg/db"
	"github.com/pixelforge/gamestore-backend/pkg/db/models"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
)

type gameLoader interface {
	FindByID(ctx context.Context, id int) (*models.Game, error)
	FindByIDs(ctx context.Context, ids []int) (map[int]models.Game, error)
}

type cartAdder interface {
	AddItem(ctx context.Context, shopperID uuid.UUID, input cart.AddItemInput) (*cart.View, error)
}

// Service manages saved games.
type Service interface {
	List(ctx context.Context, shopperID uuid.UUID, sortKey string) (*List, error)
	Add(ctx context.Context, shopperID uuid.UUID, gameID int, platform string) (*Item, error)
	Remove(ctx context.Context, shopperID uuid.UUID, gameID int) error
	MoveToCart(ctx context.Context, shopperID uuid.UUID, gameID int) (*cart.View, error)
	MoveAllToCart(ctx context.Context, shopperID uuid.UUID) (*MoveResult, error)
}

type service struct {
	repo  *Repository
	games gameLoader
	carts cartAdder
	now   func() time.Time
}

func NewService(repo *Repository, games gameLoader, carts cartAdder, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if games == nil {
		return nil, fmt.Errorf("game loader required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, games: games, carts: carts, now: now}, nil
}

func (s *service) List(ctx context.Context, shopperID uuid.UUID, sortKey string) (*List, error) {
	key, err := enums.ParseWishlistSort(sortKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	items, err := s.load(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	sortItems(items, key)
	return &List{Items: items, Summary: summarize(items)}, nil
}

func (s *service) load(ctx context.Context, shopperID uuid.UUID) ([]Item, error) {
	rows, err := s.repo.List(ctx, shopperID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	ids := make([]int, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.GameID)
	}
	games, err := s.games.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist games")
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		game, ok := games[row.GameID]
		if !ok {
			continue
		}
		items = append(items, Item{Game: catalog.FromModel(game), Platform: row.Platform, AddedAt: row.AddedAt})
	}
	return items, nil
}

// sortItems orders items in place; ties keep the most recently added first.
func sortItems(items []Item, key enums.WishlistSort) {
	var less func(a, b Item) bool
	switch key {
	case enums.WishlistSortPriceLow:
		less = func(a, b Item) bool { return a.Game.EffectivePrice().LessThan(b.Game.EffectivePrice()) }
	case enums.WishlistSortPriceHigh:
		less = func(a, b Item) bool { return a.Game.EffectivePrice().GreaterThan(b.Game.EffectivePrice()) }
	case enums.WishlistSortRating:
		less = func(a, b Item) bool { return a.Game.Rating > b.Game.Rating }
	default:
		less = func(a, b Item) bool { return a.AddedAt.After(b.AddedAt) }
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

func (s *service) Add(ctx context.Context, shopperID uuid.UUID, gameID int, platform string) (*Item, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("game %d not found", gameID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load game")
	}

	product := catalog.FromModel(*game)
	platform = strings.TrimSpace(platform)
	switch {
	case platform == "" && len(product.Platforms) > 0:
		platform = product.Platforms[0]
	case platform != "" && !product.HasPlatform(platform):
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is not available on %s", product.Title, platform))
	}

	row := &models.WishlistItem{
		ShopperID: shopperID,
		GameID:    gameID,
		Platform:  platform,
		AddedAt:   s.now().UTC(),
	}
	if err := s.repo.Add(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s is already in your wishlist", product.Title))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	return &Item{Game: product, Platform: row.Platform, AddedAt: row.AddedAt}, nil
}

func (s *service) Remove(ctx context.Context, shopperID uuid.UUID, gameID int) error {
	n, err := s.repo.Remove(ctx, shopperID, gameID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	if n == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("game %d is not in your wishlist", gameID))
	}
	return nil
}

// MoveToCart adds one copy of a saved game to the cart. The wishlist keeps it.
func (s *service) MoveToCart(ctx context.Context, shopperID uuid.UUID, gameID int) (*cart.View, error) {
	row, err := s.repo.Find(ctx, shopperID, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("game %d is not in your wishlist", gameID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist item")
	}
	return s.carts.AddItem(ctx, shopperID, cart.AddItemInput{GameID: row.GameID, Platform: row.Platform, Quantity: 1})
}

// MoveAllToCart adds every saved game to the cart. Games that can no longer be
// added are reported as skipped.
func (s *service) MoveAllToCart(ctx context.Context, shopperID uuid.UUID) (*MoveResult, error) {
	items, err := s.load(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	res := &MoveResult{Moved: []int{}, Skipped: []int{}}
	for _, it := range items {
		_, err := s.carts.AddItem(ctx, shopperID, cart.AddItemInput{GameID: it.Game.ID, Platform: it.Platform, Quantity: 1})
		if err != nil {
			code := pkgerrors.CodeOf(err)
			if code == pkgerrors.CodeValidation || code == pkgerrors.CodeNotFound {
				res.Skipped = append(res.Skipped, it.Game.ID)
				continue
			}
			return nil, err
		}
		res.Moved = append(res.Moved, it.Game.ID)
	}
	return res, nil
}
