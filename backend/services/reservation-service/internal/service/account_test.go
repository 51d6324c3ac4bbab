package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ecocharge/backend/services/reservation-service/internal/models"
	"ecocharge/backend/services/reservation-service/internal/password"
)

func newAccountService(t *testing.T) (*AccountService, *recordingAccounts) {
	t.Helper()
	accounts := &recordingAccounts{}
	tokens := NewTokenService("test-secret", time.Hour)
	tokens.now = fixedClock()
	svc := NewAccountService(newFixtureStore(t), accounts, password.NewBcryptHasher(bcrypt.MinCost), tokens, testLogger())
	return svc, accounts
}

func TestAccountRegisterAndLogin(t *testing.T) {
	stubIDs(t)
	svc, accounts := newAccountService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Meera", Email: " Meera@Example.com ", Password: "volts"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "meera@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Zero(t, user.LoyaltyPoints)
	assert.Empty(t, user.PasswordHash)

	require.Len(t, accounts.saved, 1)
	assert.NotEmpty(t, accounts.saved[0].PasswordHash, "snapshot keeps the hash")

	token, loggedIn, err := svc.Login(ctx, "MEERA@example.com", "volts")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)

	claims, err := svc.tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = svc.Login(ctx, "meera@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "volts")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	svc, accounts := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Other", Email: "ASHA@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailInUse)

	_, err = svc.Register(ctx, RegisterInput{Email: "nope"})
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"email", "name", "password"}, verr.Fields())
	assert.Empty(t, accounts.saved)
}

func TestAccountSeededUserWithoutHashCannotLogin(t *testing.T) {
	svc, _ := newAccountService(t)
	_, _, err := svc.Login(context.Background(), "asha@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(context.Background(), "asha@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountMe(t *testing.T) {
	svc, _ := newAccountService(t)

	me, err := svc.Me("u-driver")
	require.NoError(t, err)
	assert.Equal(t, 40, me.LoyaltyPoints)

	_, err = svc.Me("")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Me("u-ghost")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestOverlaySnapshots(t *testing.T) {
	feed := []models.User{
		{ID: "u1", Name: "Feed One", PasswordHash: "h1"},
		{ID: "u2", Name: "Feed Two", PasswordHash: "h2"},
	}
	snapshots := []models.User{
		{ID: "u2", Name: "Snap Two", LoyaltyPoints: 30},
		{ID: "u3", Name: "New", PasswordHash: "h3"},
	}

	got := OverlaySnapshots(feed, snapshots)
	require.Len(t, got, 3)
	assert.Equal(t, "Feed One", got[0].Name)
	assert.Equal(t, "Snap Two", got[1].Name)
	assert.Equal(t, "h2", got[1].PasswordHash)
	assert.Equal(t, 30, got[1].LoyaltyPoints)
	assert.Equal(t, "u3", got[2].ID)
}

func TestAccountUpdateProfile(t *testing.T) {
	svc, accounts := newAccountService(t)
	ctx := context.Background()

	name, email, phone := " Asha Rao ", "Asha.Rao@Example.com", "+91 98450 00001"
	got, err := svc.UpdateProfile(ctx, "u-driver", ProfileInput{Name: &name, Email: &email, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, "asha.rao@example.com", got.Email)
	assert.Equal(t, "+91 98450 00001", got.Phone)
	assert.Equal(t, 40, got.LoyaltyPoints)

	stored, err := svc.store.UserByEmail("asha.rao@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-driver", stored.ID)
	_, err = svc.store.UserByEmail("asha@example.com")
	assert.Error(t, err)

	require.Len(t, accounts.saved, 1)
	assert.Equal(t, "Asha Rao", accounts.saved[0].Name)

	onlyPhone := "12345"
	got, err = svc.UpdateProfile(ctx, "u-driver", ProfileInput{Phone: &onlyPhone})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, "12345", got.Phone)
}

func TestAccountUpdateProfileFailures(t *testing.T) {
	svc, accounts := newAccountService(t)
	ctx := context.Background()

	taken := "RAVI@example.com"
	_, err := svc.UpdateProfile(ctx, "u-driver", ProfileInput{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailInUse)

	blank, bad := "  ", "not-an-email"
	_, err = svc.UpdateProfile(ctx, "u-driver", ProfileInput{Name: &blank, Email: &bad})
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"email", "name"}, verr.Fields())

	_, err = svc.UpdateProfile(ctx, "", ProfileInput{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.UpdateProfile(ctx, "u-ghost", ProfileInput{Name: &taken})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	me, err := svc.Me("u-driver")
	require.NoError(t, err)
	assert.Equal(t, "Asha", me.Name)
	assert.Equal(t, "asha@example.com", me.Email)
	assert.Empty(t, accounts.saved)
}
