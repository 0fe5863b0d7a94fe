package persistence

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/config"
)

func TestPostgresDisabledWithoutDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, pg.Enabled())
	assert.Nil(t, pg.PoolHandle())
	assert.ErrorIs(t, pg.Ping(context.Background()), ErrPostgresDisabled)
	pg.Close()
}

func TestRunMigrationsRequiresDSN(t *testing.T) {
	err := RunMigrations("", fstest.MapFS{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoDSN)
}

func TestMigrationSource(t *testing.T) {
	embedded := fstest.MapFS{"0001_x.up.sql": {Data: []byte("SELECT 1;")}}
	assert.Equal(t, fs.FS(embedded), MigrationSource("", embedded))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001_y.up.sql"), []byte("SELECT 2;"), 0o600))
	data, err := fs.ReadFile(MigrationSource(dir, embedded), "0001_y.up.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2;", string(data))
}

func TestRedisKeyAndPing(t *testing.T) {
	mr := miniredis.RunT(t)

	r := NewRedis(config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "backoffice:"}, zap.NewNop())
	defer r.Close()

	assert.Equal(t, "backoffice:selection:a1", r.Key("selection", "a1"))
	assert.NoError(t, r.Ping(context.Background()))

	bare := NewRedisWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	defer bare.Close()
	assert.Equal(t, "summary:licenses", bare.Key("summary", "licenses"))

	var missing *Redis
	assert.Error(t, missing.Ping(context.Background()))
}
