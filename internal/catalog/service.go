package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pixelforge/gamestore-backend/pkg/db/models"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
	"github.com/pixelforge/gamestore-backend/pkg/pagination"
)

// Service exposes catalog browsing and admin management.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Get(ctx context.Context, id int) (*Product, error)
	Categories(ctx context.Context) ([]Category, error)
	Platforms() []string

	CreateGame(ctx context.Context, input GameInput) (*Product, error)
	UpdateGame(ctx context.Context, id int, input GameInput) (*Product, error)
	DeleteGame(ctx context.Context, id int) error
	UploadKeys(ctx context.Context, id int, raw string) (*KeyUploadResult, error)
	LowStock(ctx context.Context) ([]Product, error)
}

// ListInput is one catalog page request.
type ListInput struct {
	Filter   FilterConfig
	Page     int
	PageSize int
}

type ListResult struct {
	Items []Product       `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// GameInput is the admin payload for creating or editing a game. Optional
// fields left nil keep their current value on update.
type GameInput struct {
	Title           string
	Platforms       []string
	Price           decimal.Decimal
	Discount        int
	Stock           int
	Category        *string
	Description     *string
	LongDescription *string
	Tags            []string
	ReleaseDate     *time.Time
	Developer       *string
	Publisher       *string
	Image           *string
	Featured        *bool
	NewRelease      *bool
}

type KeyUploadResult struct {
	GameID    int `json:"game_id"`
	KeysAdded int `json:"keys_added"`
	Stock     int `json:"stock"`
}

// QueryObserver receives catalog query outcomes, typically for metrics.
type QueryObserver interface {
	ObserveCatalogQuery(sort string, results int)
}

type ServiceParams struct {
	Repo              *Repository
	Tx                txRunner
	DefaultPageSize   int
	MaxPageSize       int
	LowStockThreshold int
	Observer          QueryObserver
	Now               func() time.Time
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo              *Repository
	tx                txRunner
	defaultPageSize   int
	maxPageSize       int
	lowStockThreshold int
	observer          QueryObserver
	now               func() time.Time
}

// NewService constructs a catalog service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.LowStockThreshold < 0 {
		return nil, fmt.Errorf("low stock threshold must not be negative")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:              params.Repo,
		tx:                params.Tx,
		defaultPageSize:   pagination.NormalizeSize(params.DefaultPageSize, 0, 0),
		maxPageSize:       pagination.NormalizeSize(params.MaxPageSize, pagination.MaxPageSize, 0),
		lowStockThreshold: params.LowStockThreshold,
		observer:          params.Observer,
		now:               now,
	}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	pageSize := pagination.NormalizeSize(input.PageSize, s.defaultPageSize, s.maxPageSize)

	rows, err := s.repo.ListGames(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list games")
	}
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, FromModel(row))
	}

	res, err := Query(products, input.Filter, input.Page, pageSize)
	if err != nil {
		return nil, mapQueryError(err)
	}

	if s.observer != nil {
		sortKey := input.Filter.SortKey.String()
		if sortKey == "" {
			sortKey = "relevance"
		}
		s.observer.ObserveCatalogQuery(sortKey, res.TotalMatched)
	}

	return &ListResult{
		Items: res.Page,
		Meta:  pagination.NewMeta(input.Page, pageSize, res.TotalMatched),
	}, nil
}

func mapQueryError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidPage):
		return pkgerrors.Wrap(pkgerrors.CodeInvalidPage, err, "invalid page")
	case errors.Is(err, ErrInvalidRange):
		return pkgerrors.Wrap(pkgerrors.CodeInvalidRange, err, "invalid price range")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
}

func (s *service) Get(ctx context.Context, id int) (*Product, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, id)
	}
	product := FromModel(*row)
	return &product, nil
}

func (s *service) Categories(ctx context.Context) ([]Category, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	games, err := s.repo.ListGames(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list games")
	}
	counts := make(map[string]int, len(rows))
	for _, g := range games {
		counts[Slugify(g.Category)]++
	}
	out := make([]Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, Category{
			ID:          row.ID,
			Name:        row.Name,
			Slug:        row.Slug,
			Description: row.Description,
			GameCount:   counts[row.Slug],
		})
	}
	return out, nil
}

func (s *service) Platforms() []string {
	return append([]string(nil), KnownPlatforms...)
}

func (s *service) CreateGame(ctx context.Context, input GameInput) (*Product, error) {
	if err := validateGameInput(&input); err != nil {
		return nil, err
	}

	var created models.Game
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		id, err := txRepo.NextID(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next game id")
		}
		created = applyInput(models.Game{
			ID:           id,
			ReleaseDate:  s.now().UTC().Truncate(24 * time.Hour),
			Tags:         []string{},
			IsNewRelease: true,
		}, input)
		if err := txRepo.CreateGame(ctx, &created); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert game")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	product := FromModel(created)
	return &product, nil
}

func (s *service) UpdateGame(ctx context.Context, id int, input GameInput) (*Product, error) {
	if err := validateGameInput(&input); err != nil {
		return nil, err
	}

	var updated models.Game
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		row, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return notFoundOrDependency(err, id)
		}
		updated = applyInput(*row, input)
		if err := txRepo.SaveGame(ctx, &updated); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update game")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	product := FromModel(updated)
	return &product, nil
}

func (s *service) DeleteGame(ctx context.Context, id int) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repo.WithTx(tx).DeleteGame(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete game")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("game %d not found", id))
		}
		return nil
	})
}

// UploadKeys adds one unit of stock per non-blank line in raw.
func (s *service) UploadKeys(ctx context.Context, id int, raw string) (*KeyUploadResult, error) {
	keys := ParseKeys(raw)
	if len(keys) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paste at least 1 key")
	}

	var stock int
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		rows, err := txRepo.AddStock(ctx, id, len(keys))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add stock")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("game %d not found", id))
		}
		game, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return notFoundOrDependency(err, id)
		}
		stock = game.Stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &KeyUploadResult{GameID: id, KeysAdded: len(keys), Stock: stock}, nil
}

func (s *service) LowStock(ctx context.Context) ([]Product, error) {
	rows, err := s.repo.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock")
	}
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// ParseKeys splits bulk key text into trimmed, non-blank lines.
func ParseKeys(raw string) []string {
	var keys []string
	for _, line := range strings.Split(raw, "\n") {
		if key := strings.TrimSpace(line); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func validateGameInput(input *GameInput) error {
	input.Title = strings.TrimSpace(input.Title)
	platforms := make([]string, 0, len(input.Platforms))
	for _, p := range input.Platforms {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}
	input.Platforms = platforms
	if input.Title == "" || len(input.Platforms) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "title and platform are required")
	}
	if !input.Price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than 0")
	}
	input.Discount = clamp(input.Discount, 0, 100)
	if input.Stock < 0 {
		input.Stock = 0
	}
	return nil
}

func applyInput(game models.Game, input GameInput) models.Game {
	game.Title = input.Title
	game.Platforms = append([]string(nil), input.Platforms...)
	game.Price = input.Price
	game.Discount = input.Discount
	game.IsOnSale = input.Discount > 0
	game.Stock = input.Stock
	if input.Category != nil {
		game.Category = strings.TrimSpace(*input.Category)
	}
	if input.Description != nil {
		game.Description = *input.Description
	}
	if input.LongDescription != nil {
		game.LongDescription = *input.LongDescription
	}
	if input.Tags != nil {
		game.Tags = append([]string(nil), input.Tags...)
	}
	if input.ReleaseDate != nil {
		game.ReleaseDate = input.ReleaseDate.UTC()
	}
	if input.Developer != nil {
		game.Developer = *input.Developer
	}
	if input.Publisher != nil {
		game.Publisher = *input.Publisher
	}
	if input.Image != nil {
		game.Image = *input.Image
	}
	if input.Featured != nil {
		game.IsFeatured = *input.Featured
	}
	if input.NewRelease != nil {
		game.IsNewRelease = *input.NewRelease
	}
	return game
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func notFoundOrDependency(err error, id int) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("game %d not found", id))
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load game")
}
