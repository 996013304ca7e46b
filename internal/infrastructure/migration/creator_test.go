package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create payment requests", "create_payment_requests"},
		{"Create-Payment-Requests", "create_payment_requests"},
		{"CREATE_PAYEES", "create_payees"},
		{"add__invoice__id", "add_invoice_id"},
		{"Add Column V2", "add_column_v2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	tmpDir := t.TempDir()

	mf, err := CreateMigration(tmpDir, "create payees", "Payee table with contact cache")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// version is a YYYYMMDDHHMMSS timestamp
	assert.Len(t, mf.Version, 14)

	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "create payees")
	assert.Contains(t, string(upContent), "Payee table with contact cache")
	assert.Contains(t, string(upContent), "Write your UP migration SQL here")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Rollback")
	assert.Contains(t, string(downContent), "Write your DOWN migration SQL here")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(nestedPath, "init", "initial schema")
	require.NoError(t, err)
	require.NotNil(t, mf)

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"000002_create_payees.up.sql",
		"000002_create_payees.down.sql",
		"000001_create_payment_requests.up.sql",
		"000001_create_payment_requests.down.sql",
		"000003_create_attachments.up.sql",
		"000003_create_attachments.down.sql",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("-- test"), 0644))
	}

	migrations, err := ListMigrations(tmpDir)
	require.NoError(t, err)

	// sorted by version regardless of directory order
	assert.Equal(t, []string{
		"000001_create_payment_requests",
		"000002_create_payees",
		"000003_create_attachments",
	}, migrations)
}

func TestListMigrations_EmptyDirectory(t *testing.T) {
	migrations, err := ListMigrations(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	migrations, err := ListMigrations("/nonexistent/path/to/migrations")
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_IgnoresNonMigrationFiles(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"000001_init.up.sql",
		"000001_init.down.sql",
		"README.md",
		"config.yaml",
		".gitkeep",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("test"), 0644))
	}

	migrations, err := ListMigrations(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init"}, migrations)
}

func TestListMigrations_IgnoresDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "000001_init.up.sql"), []byte("test"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "000001_init.down.sql"), []byte("test"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "subdir.up.sql"), 0755))

	migrations, err := ListMigrations(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init"}, migrations)
}
