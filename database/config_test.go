/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
connection:
  type: sqlserver
  host: db.internal
  port: 1433
  username: app
  dbname: people
  max_open_conns: 20
  connect_timeout: 5s
  enable_query_log: true
log:
  level: debug
  format: json
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := writeFile(t, "norm.yaml", sampleConfig)

	cfg, err := LoadConfig(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	c := cfg.ConnectionConfig
	assert.Equal(t, TypeSQLServer, c.Type)
	assert.Equal(t, "db.internal", c.Host)
	assert.Equal(t, 1433, c.Port)
	assert.Equal(t, "people", c.DBName)
	assert.Equal(t, 20, c.MaxOpenConns)
	assert.Equal(t, 5*time.Second, c.ConnectTimeout)
	assert.True(t, c.EnableQueryLog)
	// unset keys keep their defaults
	assert.Equal(t, 10, c.MaxIdleConns)
	assert.Equal(t, time.Hour, c.ConnMaxLifetime)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, "norm.yaml", sampleConfig)
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("DB_PORT", "14330")
	t.Setenv("DB_SLOW_QUERY_TIME", "3")
	t.Setenv("DB_ENABLE_QUERY_LOG", "false")

	cfg, err := LoadConfig(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "override.internal", cfg.ConnectionConfig.Host)
	assert.Equal(t, 14330, cfg.ConnectionConfig.Port)
	assert.Equal(t, 3*time.Second, cfg.ConnectionConfig.SlowQueryTime)
	assert.False(t, cfg.ConnectionConfig.EnableQueryLog)
}

func TestLoadConfigDotEnv(t *testing.T) {
	// godotenv never overrides variables that are already set
	for _, key := range []string{"DB_NAME", "DB_PASSWORD"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	envFile := writeFile(t, "test.env", "DB_NAME=from_dotenv\nDB_PASSWORD=secret\n")

	cfg, err := LoadConfig("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.ConnectionConfig.DBName)
	assert.Equal(t, "secret", cfg.ConnectionConfig.Password)
	assert.Equal(t, TypeSQLServer, cfg.ConnectionConfig.Type)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "connection: [unterminated")
	_, err = LoadConfig(bad, filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestApplyEnvIgnoresMalformedNumbers(t *testing.T) {
	cfg := DefaultConnectionConfig()
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	ApplyEnv(cfg)
	assert.Equal(t, 100, cfg.MaxOpenConns)
}

func TestIsSQLServer(t *testing.T) {
	assert.True(t, IsSQLServer(TypeSQLServer))
	assert.True(t, IsSQLServer("mssql"))
	for _, typ := range []string{TypeMySQL, TypePostgres, "postgresql", TypeSQLite, "sqlite3", ""} {
		assert.False(t, IsSQLServer(typ), typ)
	}
}
