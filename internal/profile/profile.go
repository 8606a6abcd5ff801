package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/pixelforge/gamestore-backend/pkg/db/models"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
)

// PersonalInfo is the editable identity section of a profile.
type PersonalInfo struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Username  string `json:"username" validate:"required,min=3,max=30,username"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"max=30"`
	Location  string `json:"location" validate:"max=100"`
	Bio       string `json:"bio" validate:"max=500"`
}

// Notifications are the shopper's email preferences.
type Notifications struct {
	Email       bool `json:"email_notifications"`
	Promotional bool `json:"promotional_emails"`
	GameUpdates bool `json:"game_updates"`
	PriceAlerts bool `json:"price_alerts"`
	Newsletter  bool `json:"newsletter"`
}

// Privacy controls what other players can see.
type Privacy struct {
	Visibility          enums.ProfileVisibility `json:"profile_visibility" validate:"required,oneof=public friends private"`
	ShowGamesOwned      bool                    `json:"show_games_owned"`
	ShowAchievements    bool                    `json:"show_achievements"`
	ShowWishlist        bool                    `json:"show_wishlist"`
	AllowFriendRequests bool                    `json:"allow_friend_requests"`
}

type Profile struct {
	ShopperID     uuid.UUID     `json:"shopper_id"`
	Personal      PersonalInfo  `json:"personal"`
	Notifications Notifications `json:"notifications"`
	Privacy       Privacy       `json:"privacy"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Default is the profile a shopper has before saving anything.
func Default(shopperID uuid.UUID) Profile {
	return Profile{
		ShopperID: shopperID,
		Notifications: Notifications{
			Email:       true,
			Promotional: true,
			GameUpdates: true,
			Newsletter:  true,
		},
		Privacy: Privacy{
			Visibility:          enums.ProfileVisibilityPublic,
			ShowGamesOwned:      true,
			ShowAchievements:    true,
			AllowFriendRequests: true,
		},
	}
}

func fromModel(m models.Profile) Profile {
	return Profile{
		ShopperID: m.ShopperID,
		Personal: PersonalInfo{
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Username:  m.Username,
			Email:     m.Email,
			Phone:     m.Phone,
			Location:  m.Location,
			Bio:       m.Bio,
		},
		Notifications: Notifications{
			Email:       m.EmailNotifications,
			Promotional: m.PromotionalEmails,
			GameUpdates: m.GameUpdates,
			PriceAlerts: m.PriceAlerts,
			Newsletter:  m.Newsletter,
		},
		Privacy: Privacy{
			Visibility:          m.ProfileVisibility,
			ShowGamesOwned:      m.ShowGamesOwned,
			ShowAchievements:    m.ShowAchievements,
			ShowWishlist:        m.ShowWishlist,
			AllowFriendRequests: m.AllowFriendRequests,
		},
		UpdatedAt: m.UpdatedAt,
	}
}

func (p Profile) toModel() models.Profile {
	return models.Profile{
		ShopperID:           p.ShopperID,
		FirstName:           p.Personal.FirstName,
		LastName:            p.Personal.LastName,
		Username:            p.Personal.Username,
		Email:               p.Personal.Email,
		Phone:               p.Personal.Phone,
		Location:            p.Personal.Location,
		Bio:                 p.Personal.Bio,
		EmailNotifications:  p.Notifications.Email,
		PromotionalEmails:   p.Notifications.Promotional,
		GameUpdates:         p.Notifications.GameUpdates,
		PriceAlerts:         p.Notifications.PriceAlerts,
		Newsletter:          p.Notifications.Newsletter,
		ProfileVisibility:   p.Privacy.Visibility,
		ShowGamesOwned:      p.Privacy.ShowGamesOwned,
		ShowAchievements:    p.Privacy.ShowAchievements,
		ShowWishlist:        p.Privacy.ShowWishlist,
		AllowFriendRequests: p.Privacy.AllowFriendRequests,
	}
}
