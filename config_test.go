package binlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "replica.ini")
	contents := `
[replica]
address = 10.0.0.5
port = 3307
username = repl
password = secret
default_schema = shop
server_id = 42
so_timeout_ms = 1000
heartbeat_period_s = 5
start_file = binlog.000009
start_position = 1234
start_gtid_set = 3E11FA47-71CA-11E1-9E33-C80AA9429562:1-5
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.5", cfg.Address)
	require.Equal(t, 3307, cfg.Port)
	require.Equal(t, "repl", cfg.Username)
	require.Equal(t, "secret", cfg.Password)
	require.EqualValues(t, 42, cfg.ServerID)
	require.Equal(t, "binlog.000009", cfg.StartFile)
	require.EqualValues(t, 1234, cfg.StartPosition)
	require.Equal(t, "3E11FA47-71CA-11E1-9E33-C80AA9429562:1-5", cfg.StartGTIDSet)
	// default, not overridden by the file
	require.EqualValues(t, 33, cfg.CharsetNumber)
}

func TestLoadConfig_DefaultsWhenSectionMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.ini")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/to/replica.ini")
	require.Error(t, err)
}
