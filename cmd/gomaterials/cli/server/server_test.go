package server

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	config "github.com/mwantia/gomaterials/internal/config/server"
	"github.com/mwantia/gomaterials/pkg/db/migrations"
	"github.com/mwantia/gomaterials/pkg/db/store"
)

func TestConfigGenerate(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	cmd := NewConfigCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"generate", "--output", dir})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "gomaterials.yaml"))
	require.NoError(t, err)

	var cfg config.BaseServerConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, config.MetadataTypeSQLite, cfg.Metadata.Type)
	assert.Equal(t, config.StorageTypeLocal, cfg.Storage.Type)
	assert.Contains(t, out.String(), "Generated")

	out.Reset()
	cmd = NewConfigCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"generate", "--output", dir})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Skipping")
}

func TestRunMigrator(t *testing.T) {
	metadata, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "materials.db"),
	})
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	var status []migrations.MigrationStatus
	err = runMigrator(cmd, metadata, func(m *migrations.Migrator) error {
		if err := m.Migrate(cmd.Context()); err != nil {
			return err
		}
		status, err = m.Status(cmd.Context())
		return err
	})
	require.NoError(t, err)

	require.NotEmpty(t, status)
	for _, s := range status {
		assert.True(t, s.Applied, "migration %d", s.Version)
	}
}
