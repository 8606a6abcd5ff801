package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
)

type addItemBody struct {
	GameID   int    `json:"game_id" validate:"required,gt=0"`
	Platform string `json:"platform" validate:"max=40"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

func TestDecodeJSONBody(t *testing.T) {
	var body addItemBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"game_id":3,"platform":"PC"}`))
	require.NoError(t, DecodeJSONBody(req, &body))
	require.Equal(t, 3, body.GameID)
}

func TestDecodeJSONBodyErrors(t *testing.T) {
	cases := map[string]string{
		"empty":   ``,
		"unknown": `{"game_id":3,"colour":"red"}`,
		"invalid": `{"game_id":0}`,
		"range":   `{"game_id":1,"quantity":500}`,
		"syntax":  `{"game_id":`,
	}
	for name, payload := range cases {
		var body addItemBody
		err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)), &body)
		if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestValidationDetailsUseJSONNames(t *testing.T) {
	err := ValidateStruct(addItemBody{})
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "is required", details["game_id"])
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=2&on_sale=true&min_price=10.5&category=rpg,action&category=horror&rating=4", nil)

	page, err := ParseQueryInt(req, "page", 1, 1, 1000)
	require.NoError(t, err)
	require.Equal(t, 2, page)

	size, err := ParseQueryInt(req, "page_size", 12, 1, 100)
	require.NoError(t, err)
	require.Equal(t, 12, size)

	onSale, err := ParseQueryBool(req, "on_sale")
	require.NoError(t, err)
	require.True(t, onSale)

	minPrice, err := ParseQueryDecimal(req, "min_price")
	require.NoError(t, err)
	require.Equal(t, "10.5", minPrice.String())

	maxPrice, err := ParseQueryDecimal(req, "max_price")
	require.NoError(t, err)
	require.Nil(t, maxPrice)

	rating, err := ParseQueryOptionalInt(req, "rating", 0, 5)
	require.NoError(t, err)
	require.Equal(t, 4, *rating)

	require.Equal(t, []string{"rpg", "action", "horror"}, ParseQueryList(req, "category"))
}

func TestParseQueryRejectsBadValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=abc&on_sale=maybe&min_price=-1&page_size=500", nil)
	_, err := ParseQueryInt(req, "page", 1, 1, 1000)
	require.Error(t, err)
	_, err = ParseQueryInt(req, "page_size", 12, 1, 100)
	require.Error(t, err)
	_, err = ParseQueryBool(req, "on_sale")
	require.Error(t, err)
	_, err = ParseQueryDecimal(req, "min_price")
	require.Error(t, err)
}

func TestParsePathInt(t *testing.T) {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("gameID", "7")
	rc.URLParams.Add("bad", "x")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	id, err := ParsePathInt(req, "gameID")
	require.NoError(t, err)
	require.Equal(t, 7, id)

	_, err = ParsePathInt(req, "bad")
	require.Error(t, err)
}

func TestSanitizeString(t *testing.T) {
	require.Equal(t, "abc", SanitizeString("  abc  ", 0))
	require.Equal(t, "ab", SanitizeString("abc", 2))
	require.Equal(t, "ñé", SanitizeString("ñéx", 2))
}
