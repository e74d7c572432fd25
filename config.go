package binlog

import (
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// Config holds the connection, auth, and streaming options §6 names,
// loaded from an INI file's `[replica]` section following
// zhukovaskychina-xmysql-server's own ini.v1-based config loading, with
// hand-set defaults for everything the file omits.
type Config struct {
	Address        string
	Port           int
	Username       string
	Password       string
	DefaultSchema  string
	ServerID       uint32
	CharsetNumber  byte
	SoTimeoutMS    int
	ConnTimeoutMS  int
	HeartbeatPeriodS int
	SemiSync       bool
	StartFile      string
	StartPosition  uint32
	StartGTIDSet   string
}

// DefaultConfig returns a Config with every §6-documented default
// filled in; LoadConfig starts from this and overrides whatever the
// INI file specifies.
func DefaultConfig() Config {
	return Config{
		Address:          "127.0.0.1",
		Port:             3306,
		DefaultSchema:    "",
		ServerID:         1000,
		CharsetNumber:    33, // utf8
		SoTimeoutMS:      30000,
		ConnTimeoutMS:    5000,
		HeartbeatPeriodS: 15,
	}
}

// LoadConfig reads the `[replica]` section of an INI file at path,
// overriding DefaultConfig's values with whatever keys are present.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := ini.Load(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "load config %s", path)
	}
	section := raw.Section("replica")

	cfg.Address = section.Key("address").MustString(cfg.Address)
	cfg.Port = section.Key("port").MustInt(cfg.Port)
	cfg.Username = section.Key("username").MustString(cfg.Username)
	cfg.Password = section.Key("password").MustString(cfg.Password)
	cfg.DefaultSchema = section.Key("default_schema").MustString(cfg.DefaultSchema)
	cfg.ServerID = uint32(section.Key("server_id").MustUint64(uint64(cfg.ServerID)))
	cfg.CharsetNumber = byte(section.Key("charset_number").MustInt(int(cfg.CharsetNumber)))
	cfg.SoTimeoutMS = section.Key("so_timeout_ms").MustInt(cfg.SoTimeoutMS)
	cfg.ConnTimeoutMS = section.Key("conn_timeout_ms").MustInt(cfg.ConnTimeoutMS)
	cfg.HeartbeatPeriodS = section.Key("heartbeat_period_s").MustInt(cfg.HeartbeatPeriodS)
	cfg.SemiSync = section.Key("semi_sync").MustBool(cfg.SemiSync)
	cfg.StartFile = section.Key("start_file").MustString(cfg.StartFile)
	cfg.StartPosition = uint32(section.Key("start_position").MustUint64(uint64(cfg.StartPosition)))
	cfg.StartGTIDSet = section.Key("start_gtid_set").MustString(cfg.StartGTIDSet)

	return cfg, nil
}
