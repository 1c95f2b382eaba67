package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "storefront.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())
	_, err = db.Exec(`CREATE TABLE t (v INTEGER)`)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT 1 + 1`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestConnectRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := ConnectRedis(ctx, "127.0.0.1:1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping 127.0.0.1:1")
}

func TestConnectElasticRequiresURL(t *testing.T) {
	_, err := ConnectElastic(ElasticConfig{})
	assert.EqualError(t, err, "elasticsearch url is empty")
}

func TestConnectMinIOInvalidEndpoint(t *testing.T) {
	_, err := ConnectMinIO(context.Background(), MinioConfig{Endpoint: "", Bucket: "catalog"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create minio client")
}
