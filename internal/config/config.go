package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tobsdb/tdbrel/pkg"
)

type TdbConfig struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	// path to a schema file applied at startup
	Schema string `mapstructure:"schema"`

	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// optional read-only account
	ReaderUsername string `mapstructure:"reader_username"`
	ReaderPassword string `mapstructure:"reader_password"`
}

const (
	DefaultPort     = 7085
	DefaultLogLevel = "error"
	configName      = "tdb"
	envPrefix       = "TDB"
)

// Flags declares the command line flags read by Load.
func Flags(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.IntP("port", "p", DefaultPort, "port to listen on")
	flags.String("log_level", DefaultLogLevel, "none, error or debug")
	flags.StringP("schema", "s", "", "schema file applied at startup")
	flags.StringP("username", "u", "", "root user name; connections are not checked when empty")
	flags.String("password", "", "root user password")
	flags.String("reader_username", "", "read-only user name")
	flags.String("reader_password", "", "read-only user password")
	flags.StringP("config", "c", "", "config file (default ./tdb.json or ./tdb.yaml)")
	return flags
}

// Load builds the config from defaults, a config file, TDB_* environment
// variables and flags, each overriding the one before.
func Load(flags *pflag.FlagSet) (*TdbConfig, error) {
	v := viper.New()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", DefaultLogLevel)
	for _, key := range []string{"schema", "username", "password", "reader_username", "reader_password"} {
		v.SetDefault(key, "")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	config_path := ""
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
		config_path, _ = flags.GetString("config")
	}

	if config_path != "" {
		v.SetConfigFile(config_path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var not_found viper.ConfigFileNotFoundError
		if config_path != "" || !errors.As(err, &not_found) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		pkg.DebugLog("no config file found, using defaults")
	} else {
		pkg.DebugLog("using config file", v.ConfigFileUsed())
	}

	var config TdbConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &config, config.Validate()
}

func (c *TdbConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := pkg.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Username == "" && c.Password != "" {
		return errors.New("password set without a username")
	}
	if c.ReaderUsername != "" && c.Username == "" {
		return errors.New("a read-only user needs a root user")
	}
	return nil
}

func (c *TdbConfig) Level() pkg.LogLevel {
	level, _ := pkg.ParseLogLevel(c.LogLevel)
	return level
}
