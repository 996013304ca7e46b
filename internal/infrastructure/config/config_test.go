package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"BILLSYNC_APP_NAME":                os.Getenv("BILLSYNC_APP_NAME"),
		"BILLSYNC_APP_ENV":                 os.Getenv("BILLSYNC_APP_ENV"),
		"BILLSYNC_APP_PORT":                os.Getenv("BILLSYNC_APP_PORT"),
		"BILLSYNC_DATABASE_DRIVER":         os.Getenv("BILLSYNC_DATABASE_DRIVER"),
		"BILLSYNC_DATABASE_HOST":           os.Getenv("BILLSYNC_DATABASE_HOST"),
		"BILLSYNC_DATABASE_PORT":           os.Getenv("BILLSYNC_DATABASE_PORT"),
		"BILLSYNC_DATABASE_USER":           os.Getenv("BILLSYNC_DATABASE_USER"),
		"BILLSYNC_DATABASE_PASSWORD":       os.Getenv("BILLSYNC_DATABASE_PASSWORD"),
		"BILLSYNC_DATABASE_DBNAME":         os.Getenv("BILLSYNC_DATABASE_DBNAME"),
		"BILLSYNC_DATABASE_SSLMODE":        os.Getenv("BILLSYNC_DATABASE_SSLMODE"),
		"BILLSYNC_DATABASE_MAX_OPEN_CONNS": os.Getenv("BILLSYNC_DATABASE_MAX_OPEN_CONNS"),
		"BILLSYNC_DATABASE_MAX_IDLE_CONNS": os.Getenv("BILLSYNC_DATABASE_MAX_IDLE_CONNS"),
		"BILLSYNC_SYNC_ENABLED":            os.Getenv("BILLSYNC_SYNC_ENABLED"),
		"BILLSYNC_SYNC_BACKLOG_LIMIT":      os.Getenv("BILLSYNC_SYNC_BACKLOG_LIMIT"),
		"BILLSYNC_XERO_TENANT_ID":          os.Getenv("BILLSYNC_XERO_TENANT_ID"),
		"BILLSYNC_XERO_ACCESS_TOKEN":       os.Getenv("BILLSYNC_XERO_ACCESS_TOKEN"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "billsync-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "billsync", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Sync.Enabled)
		assert.Equal(t, 50, cfg.Sync.BacklogLimit)
		assert.Equal(t, 40, cfg.Sync.ReconcileChunkSize)
		assert.Equal(t, 30, cfg.Sync.DueTermDays)
		assert.Equal(t, "600", cfg.Sync.AccountMappings["reimbursement"])
		assert.Equal(t, "stub", cfg.Storage.Provider)
		assert.False(t, cfg.Xero.IsConfigured())
	})

	t.Run("loads values from environment variables with BILLSYNC prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLSYNC_APP_NAME", "test-app")
		os.Setenv("BILLSYNC_APP_ENV", "testing")
		os.Setenv("BILLSYNC_APP_PORT", "9000")
		os.Setenv("BILLSYNC_DATABASE_HOST", "testdb.local")
		os.Setenv("BILLSYNC_DATABASE_PORT", "5433")
		os.Setenv("BILLSYNC_DATABASE_USER", "testuser")
		os.Setenv("BILLSYNC_DATABASE_PASSWORD", "testpass")
		os.Setenv("BILLSYNC_DATABASE_DBNAME", "testdb")
		os.Setenv("BILLSYNC_DATABASE_SSLMODE", "require")
		os.Setenv("BILLSYNC_SYNC_ENABLED", "true")
		os.Setenv("BILLSYNC_SYNC_BACKLOG_LIMIT", "20")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.True(t, cfg.Sync.Enabled)
		assert.Equal(t, 20, cfg.Sync.BacklogLimit)
	})

	t.Run("accepts sqlite driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLSYNC_DATABASE_DRIVER", "sqlite")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "billsync.db", cfg.Database.SQLitePath)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLSYNC_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLSYNC_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("BILLSYNC_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLSYNC_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLSYNC_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects reconcile chunk size above provider limit", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLSYNC_SYNC_RECONCILE_CHUNK_SIZE", "41")
		defer os.Unsetenv("BILLSYNC_SYNC_RECONCILE_CHUNK_SIZE")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reconcile_chunk_size")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"BILLSYNC_APP_ENV":                  os.Getenv("BILLSYNC_APP_ENV"),
		"BILLSYNC_DATABASE_DRIVER":          os.Getenv("BILLSYNC_DATABASE_DRIVER"),
		"BILLSYNC_DATABASE_PASSWORD":        os.Getenv("BILLSYNC_DATABASE_PASSWORD"),
		"BILLSYNC_DATABASE_SSLMODE":         os.Getenv("BILLSYNC_DATABASE_SSLMODE"),
		"BILLSYNC_SYNC_ENABLED":             os.Getenv("BILLSYNC_SYNC_ENABLED"),
		"BILLSYNC_SYNC_ATTACHMENTS_ENABLED": os.Getenv("BILLSYNC_SYNC_ATTACHMENTS_ENABLED"),
		"BILLSYNC_XERO_TENANT_ID":           os.Getenv("BILLSYNC_XERO_TENANT_ID"),
		"BILLSYNC_XERO_ACCESS_TOKEN":        os.Getenv("BILLSYNC_XERO_ACCESS_TOKEN"),
		"BILLSYNC_STORAGE_PROVIDER":         os.Getenv("BILLSYNC_STORAGE_PROVIDER"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	// Helper to set valid production base config
	setValidProductionBase := func() {
		os.Setenv("BILLSYNC_APP_ENV", "production")
		os.Setenv("BILLSYNC_DATABASE_PASSWORD", "secure-password")
		os.Setenv("BILLSYNC_DATABASE_SSLMODE", "require")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLSYNC_APP_ENV", "production")
		os.Setenv("BILLSYNC_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLSYNC_APP_ENV", "production")
		os.Setenv("BILLSYNC_DATABASE_PASSWORD", "secure-password")
		os.Setenv("BILLSYNC_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects sqlite in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("BILLSYNC_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sqlite is not supported in production")
	})

	t.Run("requires provider credentials when sync enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("BILLSYNC_SYNC_ENABLED", "true")
		os.Setenv("BILLSYNC_SYNC_ATTACHMENTS_ENABLED", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "xero.tenant_id and xero.access_token are required")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("BILLSYNC_SYNC_ENABLED", "true")
		os.Setenv("BILLSYNC_SYNC_ATTACHMENTS_ENABLED", "true")
		os.Setenv("BILLSYNC_XERO_TENANT_ID", "tenant-1")
		os.Setenv("BILLSYNC_XERO_ACCESS_TOKEN", "token-1")
		os.Setenv("BILLSYNC_STORAGE_PROVIDER", "s3")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
		assert.True(t, cfg.Xero.IsConfigured())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid postgres DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("sqlite driver returns the file path", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "data/billsync.db",
		}

		assert.Equal(t, "data/billsync.db", cfg.DSN())
	})
}
