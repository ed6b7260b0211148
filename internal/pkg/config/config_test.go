//go:build unit

package config_test

import (
	"testing"

	"library-rental/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestConfig(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "library")

	loaded, err := config.LoadConfig()
	require.NoError(t, err)

	cfg := config.NewTestConfig()
	require.NoError(t, cfg.Validate())
	assert.Positive(t, cfg.DB.ConnectTimeout)
	assert.Equal(t, loaded.DB.ConnectTimeout, cfg.DB.ConnectTimeout, "test config should share the connect timeout default")
	assert.Equal(t, loaded.DB.MaxTxRetries, cfg.DB.MaxTxRetries)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "postgres with credentials", mutate: func(*config.Config) {}},
		{name: "memory needs no database", mutate: func(c *config.Config) {
			c.Store.Driver = config.StoreDriverMemory
			c.DB = config.DBConfig{}
		}},
		{name: "postgres without user", mutate: func(c *config.Config) { c.DB.User = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *config.Config) { c.Store.Driver = "sqlite" }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			tc.mutate(&cfg)
			if tc.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
