package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/pixelforge/gamestore-backend/pkg/db/models"
)

// Repository persists games and categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListGames returns every game in catalog order (id ascending).
func (r *Repository) ListGames(ctx context.Context) ([]models.Game, error) {
	var rows []models.Game
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

// FindByID loads one game.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Game, error) {
	var game models.Game
	if err := r.db.WithContext(ctx).First(&game, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// FindByIDs loads the games with the given ids keyed by id.
func (r *Repository) FindByIDs(ctx context.Context, ids []int) (map[int]models.Game, error) {
	out := make(map[int]models.Game, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Game
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// NextID returns max(id)+1, or 1 for an empty catalog.
func (r *Repository) NextID(ctx context.Context) (int, error) {
	var maxID int
	err := r.db.WithContext(ctx).
		Model(&models.Game{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).
		Error
	if err != nil {
		return 0, err
	}
	return maxID + 1, nil
}

func (r *Repository) CreateGame(ctx context.Context, game *models.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *Repository) SaveGame(ctx context.Context, game *models.Game) error {
	return r.db.WithContext(ctx).Save(game).Error
}

// DeleteGame removes a game and any wishlist rows pointing at it.
func (r *Repository) DeleteGame(ctx context.Context, id int) (int64, error) {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("game_id = ?", id).Delete(&models.WishlistItem{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id = ?", id).Delete(&models.Game{})
	return res.RowsAffected, res.Error
}

// AddStock increments stock by n.
func (r *Repository) AddStock(ctx context.Context, id int, n int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Game{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", n))
	return res.RowsAffected, res.Error
}

// TakeStock decrements stock by n when at least n keys remain. It reports
// whether the decrement happened.
func (r *Repository) TakeStock(ctx context.Context, id int, n int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Game{}).
		Where("id = ? AND stock >= ?", id, n).
		Update("stock", gorm.Expr("stock - ?", n))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListLowStock returns games with stock at or below threshold.
func (r *Repository) ListLowStock(ctx context.Context, threshold int) ([]models.Game, error) {
	var rows []models.Game
	err := r.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC, id ASC").
		Find(&rows).
		Error
	return rows, err
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}
