package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pixelforge/gamestore-backend/api/responses"
	"github.com/pixelforge/gamestore-backend/api/validators"
	"github.com/pixelforge/gamestore-backend/internal/catalog"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
)

const maxSearchLength = 100

// GamesList serves the filtered, sorted and paged catalog.
func GamesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseListInput(r *http.Request) (catalog.ListInput, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
	if err != nil {
		return catalog.ListInput{}, err
	}
	pageSize, err := validators.ParseQueryInt(r, "page_size", 0, 0, 1000)
	if err != nil {
		return catalog.ListInput{}, err
	}
	sortKey, err := enums.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		return catalog.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown sort").
			WithDetails(map[string]any{"field": "sort"})
	}
	rating, err := validators.ParseQueryOptionalInt(r, "rating", 0, 5)
	if err != nil {
		return catalog.ListInput{}, err
	}
	priceRange, err := parsePriceRange(r)
	if err != nil {
		return catalog.ListInput{}, err
	}

	var flags catalog.ShowOnly
	for key, dest := range map[string]*bool{
		"on_sale":     &flags.OnSale,
		"new_release": &flags.NewRelease,
		"featured":    &flags.Featured,
	} {
		if *dest, err = validators.ParseQueryBool(r, key); err != nil {
			return catalog.ListInput{}, err
		}
	}

	return catalog.ListInput{
		Filter: catalog.FilterConfig{
			SearchText:      validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLength),
			Categories:      validators.ParseQueryList(r, "category"),
			Platforms:       validators.ParseQueryList(r, "platform"),
			PriceRange:      priceRange,
			MinRatingBucket: rating,
			ShowOnly:        flags,
			SortKey:         sortKey,
		},
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// parsePriceRange leaves a missing bound open. Inverted bounds are passed
// through so the engine reports them.
func parsePriceRange(r *http.Request) (*catalog.PriceRange, error) {
	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return nil, err
	}
	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return nil, err
	}
	if minPrice == nil && maxPrice == nil {
		return nil, nil
	}
	out := &catalog.PriceRange{Min: decimal.Zero, Max: decimal.NewFromInt(1_000_000)}
	if minPrice != nil {
		out.Min = *minPrice
	}
	if maxPrice != nil {
		out.Max = *maxPrice
	}
	return out, nil
}

func GameGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, "gameID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		game, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, game)
	}
}

func CategoriesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

func PlatformsList(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Platforms())
	}
}
