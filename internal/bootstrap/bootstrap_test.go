package bootstrap_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-sync/internal/bootstrap"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/pkg/config"
)

func baseConfig(driver string) *config.Config {
	return &config.Config{
		Store:  config.StoreConfig{Driver: driver},
		SQLite: config.SQLiteConfig{Path: ":memory:"},
	}
}

func TestBuild_PrimaryStoresSinMirror(t *testing.T) {
	for _, driver := range []string{config.DriverMemory, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			s, err := bootstrap.Build(ctx, baseConfig(driver), zerolog.Nop(), bootstrap.Options{})
			require.NoError(t, err)
			defer s.Close()

			assert.Nil(t, s.Mirror)
			assert.False(t, s.Repo.MirrorEnabled())

			lead, err := s.Repo.CreateLead(ctx, &entity.Lead{Name: "Acme", Status: entity.LeadStatusNew})
			require.NoError(t, err)
			assert.Equal(t, int64(1), lead.ID)
		})
	}
}

func TestBuild_MirrorSinCredencialesFallaRapido(t *testing.T) {
	cfg := baseConfig(config.DriverMemory)
	_, err := bootstrap.Build(context.Background(), cfg, zerolog.Nop(), bootstrap.Options{RequireMirror: true})
	assert.ErrorIs(t, err, config.ErrMissingConfig)
}

func TestBuild_DriverDesconocido(t *testing.T) {
	_, err := bootstrap.Build(context.Background(), baseConfig("mongo"), zerolog.Nop(), bootstrap.Options{})
	assert.Error(t, err)
}
