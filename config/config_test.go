package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(`
server:
  store: memory
mysql:
  addr: db:3306
  database: app
  username: u
  password: p
`), 0o600))
	t.Setenv("VIDTUBE_MYSQL_PASSWORD", "secret")

	Init(dir)

	assert.Equal(t, "memory", ConfigInfo.Server.Store)
	assert.Equal(t, ":8888", ConfigInfo.Server.Addr)
	assert.Equal(t, "secret", ConfigInfo.Mysql.Password)
	assert.Equal(t, "u:secret@tcp(db:3306)/app?charset=utf8mb4&parseTime=True&loc=Local", MysqlDSN())
	assert.Equal(t, "1h", ConfigInfo.Jwt.AccessTTL)
}
