package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyOverrides(t *testing.T) {
	env := defaults()
	err := env.applyOverrides(lookupFrom(map[string]string{
		"APP_ADDR":             ":9090",
		"DB_DRIVER":            "sqlite",
		"JWT_TTL":              "2h",
		"DB_AUTO_MIGRATE":      "false",
		"PAGE_SIZE_MAX":        "50",
		"CORS_ALLOWED_ORIGINS": "https://a.example, ,https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", env.AppAddr)
	assert.Equal(t, "sqlite", env.DBDriver)
	assert.Equal(t, 2*time.Hour, env.JWTTTL)
	assert.False(t, env.DBAutoMigrate)
	assert.Equal(t, 50, env.PageSizeMax)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.CORSAllowedOrigins)
}

func TestApplyOverridesRejectsBadValues(t *testing.T) {
	env := defaults()
	require.Error(t, env.applyOverrides(lookupFrom(map[string]string{"JWT_TTL": "soon"})))

	env = defaults()
	require.Error(t, env.applyOverrides(lookupFrom(map[string]string{"PAGE_SIZE_MAX": "many"})))
}

func TestValidate(t *testing.T) {
	env := defaults()
	require.NoError(t, env.Validate())
	assert.NotEmpty(t, env.JWTSecret, "development gets a fallback secret")

	env = defaults()
	env.AppEnv = "production"
	require.Error(t, env.Validate())

	env = defaults()
	env.DBDriver = "oracle"
	require.Error(t, env.Validate())

	env = defaults()
	env.PageSizeDefault = 200
	require.Error(t, env.Validate())
}

func TestLoadEnvReadsYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_addr: ":7000"
db_driver: sqlite
db_dsn: "file::memory:"
jwt_secret: from-file
cache_ttl: 30s
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_ADDR", ":7001")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ":7001", env.AppAddr)
	assert.Equal(t, "sqlite", env.DBDriver)
	assert.Equal(t, "from-file", env.JWTSecret)
	assert.Equal(t, 30*time.Second, env.CacheTTL)
}

func TestPingDB(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	mock.ExpectPing()
	require.NoError(t, PingDB(context.Background(), db))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	require.Error(t, PingDB(context.Background(), db))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPingDBWithoutConnection(t *testing.T) {
	require.Error(t, PingDB(context.Background(), nil))
}
