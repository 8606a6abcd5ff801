package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/gamestore-backend/pkg/db/dbtest"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(dbtest.Open(t).DB())
	require.NoError(t, err)
	return svc
}

func TestGetSeededProfile(t *testing.T) {
	svc := newTestService(t)
	p, err := svc.Get(context.Background(), dbtest.DemoShopper)
	require.NoError(t, err)
	require.Equal(t, "john_gamer", p.Personal.Username)
	require.Equal(t, "New York, USA", p.Personal.Location)
	require.False(t, p.Notifications.PriceAlerts)
	require.True(t, p.Notifications.Newsletter)
	require.Equal(t, enums.ProfileVisibilityPublic, p.Privacy.Visibility)
	require.False(t, p.Privacy.ShowWishlist)
}

func TestGetDefaultsForNewShopper(t *testing.T) {
	svc := newTestService(t)
	id := uuid.New()
	p, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, Default(id), *p)
}

func TestUpdateSectionsIndependently(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := uuid.New()

	p, err := svc.UpdatePersonal(ctx, id, PersonalInfo{
		FirstName: " Ada ",
		LastName:  "Lovelace",
		Username:  "ada.l",
		Email:     "ada@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "Ada", p.Personal.FirstName)
	require.True(t, p.Notifications.Email)

	p, err = svc.UpdateNotifications(ctx, id, Notifications{PriceAlerts: true})
	require.NoError(t, err)
	require.True(t, p.Notifications.PriceAlerts)
	require.False(t, p.Notifications.Email)
	require.Equal(t, "ada.l", p.Personal.Username)

	p, err = svc.UpdatePrivacy(ctx, id, Privacy{Visibility: enums.ProfileVisibilityFriends, ShowWishlist: true})
	require.NoError(t, err)
	require.Equal(t, enums.ProfileVisibilityFriends, p.Privacy.Visibility)
	require.True(t, p.Notifications.PriceAlerts)
}

func TestUpdatePersonalValidation(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpdatePersonal(context.Background(), dbtest.DemoShopper, PersonalInfo{
		FirstName: "",
		LastName:  "Gamer",
		Username:  "no spaces allowed",
		Email:     "not-an-email",
	})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	require.Contains(t, details, "first_name")
	require.Contains(t, details, "username")
	require.Contains(t, details, "email")
}

func TestUpdatePrivacyRejectsUnknownVisibility(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpdatePrivacy(context.Background(), dbtest.DemoShopper, Privacy{Visibility: "everyone"})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
