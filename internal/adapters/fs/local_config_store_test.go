package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

func TestLocalConfigStore(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), ".catapult")
	store := NewLocalConfigStore(&config.RuntimeConfig{DataDir: dataDir})
	ctx := context.Background()

	assert.Equal(t, filepath.Join(dataDir, LocalConfigFile), store.GetPath())
	assert.False(t, store.Exists())
	local, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLocalConfig(), local)

	require.NoError(t, store.Save(ctx, &config.LocalConfig{Network: "sepolia", Account: "1"}))
	assert.True(t, store.Exists())
	_, err = os.Stat(store.GetPath() + ".tmp")
	assert.True(t, os.IsNotExist(err))

	local, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, &config.LocalConfig{Network: "sepolia", Account: "1"}, local)

	// an account override alone keeps the file
	require.NoError(t, store.Save(ctx, &config.LocalConfig{Account: "1"}))
	assert.True(t, store.Exists())

	require.NoError(t, store.Save(ctx, &config.LocalConfig{}))
	assert.False(t, store.Exists())
	require.NoError(t, store.Save(ctx, &config.LocalConfig{}), "clearing twice is not an error")
}

func TestLocalConfigStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LocalConfigFile), []byte("{network"), 0644))

	_, err := NewLocalConfigStore(&config.RuntimeConfig{DataDir: dir}).Load(context.Background())
	assert.ErrorContains(t, err, "failed to parse")
}
