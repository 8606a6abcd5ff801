package models

import (
	"time"

	"github.com/shopspring/decimal"

	dbtypes "github.com/pixelforge/gamestore-backend/pkg/db/types"
)

// Game is a catalog listing together with its license key stock.
type Game struct {
	ID              int                 `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title           string              `gorm:"column:title;not null"`
	Description     string              `gorm:"column:description;not null;default:''"`
	LongDescription string              `gorm:"column:long_description;not null;default:''"`
	Category        string              `gorm:"column:category;not null"`
	Platforms       dbtypes.StringArray `gorm:"column:platforms;type:text;not null"`
	Tags            dbtypes.StringArray `gorm:"column:tags;type:text;not null"`
	Price           decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	Discount        int                 `gorm:"column:discount;not null;default:0"`
	Rating          float64             `gorm:"column:rating;not null;default:0"`
	Reviews         int                 `gorm:"column:reviews;not null;default:0"`
	Image           string              `gorm:"column:image;not null;default:''"`
	Developer       string              `gorm:"column:developer;not null;default:''"`
	Publisher       string              `gorm:"column:publisher;not null;default:''"`
	ReleaseDate     time.Time           `gorm:"column:release_date;not null"`
	IsFeatured      bool                `gorm:"column:is_featured;not null;default:false"`
	IsOnSale        bool                `gorm:"column:is_on_sale;not null;default:false"`
	IsNewRelease    bool                `gorm:"column:is_new_release;not null;default:false"`
	Stock           int                 `gorm:"column:stock;not null;default:0"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Game) TableName() string { return "games" }

// Category is a browsable genre.
type Category struct {
	ID          int    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name        string `gorm:"column:name;not null"`
	Slug        string `gorm:"column:slug;not null;uniqueIndex"`
	Description string `gorm:"column:description;not null;default:''"`
}

func (Category) TableName() string { return "categories" }
