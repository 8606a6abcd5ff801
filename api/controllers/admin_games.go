package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pixelforge/gamestore-backend/api/responses"
	"github.com/pixelforge/gamestore-backend/api/validators"
	"github.com/pixelforge/gamestore-backend/internal/catalog"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
)

const releaseDateLayout = "2006-01-02"

type gameRequest struct {
	Title           string          `json:"title" validate:"required,max=200"`
	Platforms       []string        `json:"platforms" validate:"required,min=1,dive,max=40"`
	Price           decimal.Decimal `json:"price"`
	Discount        int             `json:"discount"`
	Stock           int             `json:"stock"`
	Category        *string         `json:"category" validate:"omitempty,max=60"`
	Description     *string         `json:"description" validate:"omitempty,max=1000"`
	LongDescription *string         `json:"long_description" validate:"omitempty,max=10000"`
	Tags            []string        `json:"tags" validate:"omitempty,dive,max=40"`
	ReleaseDate     *string         `json:"release_date"`
	Developer       *string         `json:"developer" validate:"omitempty,max=200"`
	Publisher       *string         `json:"publisher" validate:"omitempty,max=200"`
	Image           *string         `json:"image" validate:"omitempty,max=500"`
	Featured        *bool           `json:"featured"`
	NewRelease      *bool           `json:"new_release"`
}

func (g gameRequest) toInput() (catalog.GameInput, error) {
	input := catalog.GameInput{
		Title:           g.Title,
		Platforms:       g.Platforms,
		Price:           g.Price,
		Discount:        g.Discount,
		Stock:           g.Stock,
		Category:        g.Category,
		Description:     g.Description,
		LongDescription: g.LongDescription,
		Tags:            g.Tags,
		Developer:       g.Developer,
		Publisher:       g.Publisher,
		Image:           g.Image,
		Featured:        g.Featured,
		NewRelease:      g.NewRelease,
	}
	if g.ReleaseDate != nil && strings.TrimSpace(*g.ReleaseDate) != "" {
		parsed, err := time.Parse(releaseDateLayout, strings.TrimSpace(*g.ReleaseDate))
		if err != nil {
			return catalog.GameInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "release_date must be YYYY-MM-DD").
				WithDetails(map[string]string{"release_date": "must be YYYY-MM-DD"})
		}
		input.ReleaseDate = &parsed
	}
	return input, nil
}

// AdminGamesList returns the full catalog in id order, one page of up to
// the configured maximum.
func AdminGamesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), catalog.ListInput{
			Filter:   catalog.FilterConfig{SearchText: validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLength)},
			Page:     page,
			PageSize: 1000,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminGameCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload gameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		game, err := svc.CreateGame(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, game)
	}
}

func AdminGameUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, "gameID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload gameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		game, err := svc.UpdateGame(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, game)
	}
}

func AdminGameDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, "gameID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteGame(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

type uploadKeysRequest struct {
	Keys string `json:"keys" validate:"required,max=200000"`
}

// AdminGameUploadKeys adds newline separated license keys to a game's stock.
func AdminGameUploadKeys(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, "gameID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload uploadKeysRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.UploadKeys(r.Context(), id, payload.Keys)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminLowStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, games)
	}
}
