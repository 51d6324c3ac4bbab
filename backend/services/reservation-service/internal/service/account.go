package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecocharge/backend/services/reservation-service/internal/catalog"
	"ecocharge/backend/services/reservation-service/internal/models"
	"ecocharge/backend/services/reservation-service/internal/password"
)

var newUserID = func() string {
	return "user-" + uuid.NewString()
}

// AccountStore persists full user snapshots after each mutation.
type AccountStore interface {
	SaveUser(ctx context.Context, user models.User) error
	LoadUsers(ctx context.Context) ([]models.User, error)
}

// NopAccountStore keeps nothing; used when no snapshot store is configured.
type NopAccountStore struct{}

// SaveUser implements AccountStore.
func (NopAccountStore) SaveUser(context.Context, models.User) error { return nil }

// LoadUsers implements AccountStore.
func (NopAccountStore) LoadUsers(context.Context) ([]models.User, error) { return nil, nil }

func accountsOrNop(a AccountStore) AccountStore {
	if a == nil {
		return NopAccountStore{}
	}
	return a
}

// OverlaySnapshots replaces feed users with their persisted snapshots and appends snapshot-only
// users (registered after the feed was built) in the order given.
func OverlaySnapshots(feed, snapshots []models.User) []models.User {
	byID := make(map[string]models.User, len(snapshots))
	for _, snap := range snapshots {
		byID[snap.ID] = snap
	}

	out := make([]models.User, 0, len(feed)+len(snapshots))
	seen := make(map[string]bool, len(feed))
	for _, u := range feed {
		seen[u.ID] = true
		if snap, ok := byID[u.ID]; ok {
			if snap.PasswordHash == "" {
				snap.PasswordHash = u.PasswordHash
			}
			u = snap
		}
		out = append(out, u)
	}
	for _, snap := range snapshots {
		if !seen[snap.ID] {
			seen[snap.ID] = true
			out = append(out, snap)
		}
	}
	return out
}

// RegisterInput is a sign-up request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ProfileInput is a profile edit. Nil fields are left unchanged.
type ProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// AccountService is the session facade: sign-up, login and profile reads and edits.
type AccountService struct {
	store    *catalog.Store
	accounts AccountStore
	hasher   password.Hasher
	tokens   *TokenService
	logger   *zap.Logger
}

// NewAccountService builds AccountService.
func NewAccountService(store *catalog.Store, accounts AccountStore, hasher password.Hasher, tokens *TokenService, logger *zap.Logger) *AccountService {
	return &AccountService{
		store:    store,
		accounts: accountsOrNop(accounts),
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a driver account with zero loyalty points.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	errs := ValidationErrors{}
	if in.Name == "" {
		errs.add("name", "Please enter your name")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		errs.add("email", "Please enter a valid email")
	}
	if in.Password == "" {
		errs.add("password", "Please choose a password")
	}
	if err := errs.errOrNil(); err != nil {
		return models.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           newUserID(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Bookings:     []models.Booking{},
		Reviews:      []models.Review{},
	}
	err = s.store.Update(func(tx *catalog.Tx) error {
		return tx.PutUser(user)
	})
	if errors.Is(err, catalog.ErrDuplicateEmail) {
		return models.User{}, ErrEmailInUse
	}
	if err != nil {
		return models.User{}, err
	}

	if err := s.accounts.SaveUser(ctx, user); err != nil {
		s.logger.Error("failed to persist user snapshot", zap.String("user_id", user.ID), zap.Error(err))
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user.Public(), nil
}

// Login authenticates a user and produces a JWT.
func (s *AccountService) Login(ctx context.Context, email, pass string) (string, models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || pass == "" {
		return "", models.User{}, ErrInvalidCredentials
	}

	user, err := s.store.UserByEmail(email)
	if err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, pass); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user.Public(), nil
}

// Me returns the signed-in user without credentials.
func (s *AccountService) Me(userID string) (models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return models.User{}, ErrUnauthenticated
	}
	user, err := s.store.User(userID)
	if err != nil {
		return models.User{}, ErrUnauthenticated
	}
	return user.Public(), nil
}

// UpdateProfile edits the contact details of the signed-in user. Bookings, reviews and loyalty
// points are never touched here.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return models.User{}, ErrUnauthenticated
	}

	errs := ValidationErrors{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
		if name == "" {
			errs.add("name", "Please enter your name")
		}
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &email
		if email == "" || !strings.Contains(email, "@") {
			errs.add("email", "Please enter a valid email")
		}
	}
	if err := errs.errOrNil(); err != nil {
		return models.User{}, err
	}

	var updated models.User
	err := s.store.Update(func(tx *catalog.Tx) error {
		user, err := tx.User(userID)
		if err != nil {
			return ErrUnauthenticated
		}
		if in.Name != nil {
			user.Name = *in.Name
		}
		if in.Email != nil {
			user.Email = *in.Email
		}
		if in.Phone != nil {
			user.Phone = strings.TrimSpace(*in.Phone)
		}
		if err := tx.PutUser(user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if errors.Is(err, catalog.ErrDuplicateEmail) {
		return models.User{}, ErrEmailInUse
	}
	if err != nil {
		return models.User{}, err
	}

	if err := s.accounts.SaveUser(ctx, updated); err != nil {
		s.logger.Error("failed to persist user snapshot", zap.String("user_id", updated.ID), zap.Error(err))
	}
	s.logger.Info("profile updated", zap.String("user_id", updated.ID))
	return updated.Public(), nil
}
