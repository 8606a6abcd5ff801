package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pixelforge/gamestore-backend/pkg/enums"
)

type Profile struct {
	ShopperID uuid.UUID `gorm:"column:shopper_id;type:text;primaryKey"`
	FirstName string    `gorm:"column:first_name;not null;default:''"`
	LastName  string    `gorm:"column:last_name;not null;default:''"`
	Username  string    `gorm:"column:username;not null;default:''"`
	Email     string    `gorm:"column:email;not null;default:''"`
	Phone     string    `gorm:"column:phone;not null;default:''"`
	Location  string    `gorm:"column:location;not null;default:''"`
	Bio       string    `gorm:"column:bio;not null;default:''"`

	EmailNotifications bool `gorm:"column:email_notifications;not null"`
	PromotionalEmails  bool `gorm:"column:promotional_emails;not null"`
	GameUpdates        bool `gorm:"column:game_updates;not null"`
	PriceAlerts        bool `gorm:"column:price_alerts;not null"`
	Newsletter         bool `gorm:"column:newsletter;not null"`

	ProfileVisibility   enums.ProfileVisibility `gorm:"column:profile_visibility;not null"`
	ShowGamesOwned      bool                    `gorm:"column:show_games_owned;not null"`
	ShowAchievements    bool                    `gorm:"column:show_achievements;not null"`
	ShowWishlist        bool                    `gorm:"column:show_wishlist;not null"`
	AllowFriendRequests bool                    `gorm:"column:allow_friend_requests;not null"`

	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string { return "profiles" }
