package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ecocharge/backend/services/reservation-service/internal/catalog"
	"ecocharge/backend/services/reservation-service/internal/config"
	"ecocharge/backend/services/reservation-service/internal/models"
	"ecocharge/backend/services/reservation-service/internal/password"
)

const testSeed = `
stations:
  - id: st-1
    name: Downtown Hub
    address: MG Road
    connectors:
      - {type: CCS2, power: 50kW, price: 10, available: true}
users:
  - id: u-1
    name: Asha
    email: asha@example.com
    password: charge
  - id: u-2
    name: Ravi
    email: ravi@example.com
    role: admin
`

func TestHashSeedUsers(t *testing.T) {
	seed, err := catalog.ParseSeed([]byte(testSeed))
	require.NoError(t, err)

	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	users, err := hashSeedUsers(seed.Users, hasher)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.NoError(t, hasher.Compare(users[0].PasswordHash, "charge"))
	assert.Empty(t, users[1].PasswordHash)
	assert.Equal(t, models.RoleAdmin, users[1].Role)
}

func TestNewFromSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSeed), 0o600))

	cfg := &config.Config{}
	cfg.Catalog.Source = config.SourceFile
	cfg.Catalog.SeedFile = path
	cfg.JWT.Secret = "secret"
	cfg.Password.BcryptCost = bcrypt.MinCost

	application, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, application.server)
	assert.Nil(t, application.redisClient)
	application.Close()
}

func TestNewFailsOnMissingSeed(t *testing.T) {
	cfg := &config.Config{}
	cfg.Catalog.Source = config.SourceFile
	cfg.Catalog.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")
	cfg.JWT.Secret = "secret"

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
