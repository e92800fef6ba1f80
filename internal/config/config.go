// Package config loads process configuration from file, environment,
// and flag sources through viper, binding the merged result onto a
// typed Config struct.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the relay's complete runtime configuration.
type Config struct {
	// ServerPort is the TCP port the JSON-RPC HTTP transport binds to.
	ServerPort int `mapstructure:"server_port"`

	// ChainID is the hex-encoded chain id returned verbatim by eth_chainId.
	ChainID string `mapstructure:"chain_id"`

	// MirrorNodeURL is the Mirror Node REST indexer's base URL.
	MirrorNodeURL string `mapstructure:"mirror_node_url"`

	// ConsensusEndpoint is the Consensus SDK native client's network
	// endpoint (e.g. "host:port" for the node being dialed).
	ConsensusEndpoint string `mapstructure:"consensus_endpoint"`

	// OperatorID / OperatorKey authenticate outbound consensus requests
	// the relay itself submits (e.g. pre-check queries).
	OperatorID  string `mapstructure:"operator_id"`
	OperatorKey string `mapstructure:"operator_key"`

	// MaxFeeHistoryBlockCount caps the blockCount parameter eth_feeHistory
	// will honor in one request (spec §4.5).
	MaxFeeHistoryBlockCount int64 `mapstructure:"max_fee_history_block_count"`

	// CacheTTL is loaded with a one-hour default but is not read by the
	// cache: every cache write passes its own TTL.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `mapstructure:"log_level"`

	// LogFilePath, if set, routes production logs through a rotating
	// lumberjack sink instead of stderr.
	LogFilePath string `mapstructure:"log_file_path"`

	// Environment selects the zap.Config base ("development" or
	// "production").
	Environment string `mapstructure:"environment"`
}

const envPrefix = "RELAY"

// Load reads configuration from built-in defaults, configPath (if
// non-empty), and environment variables prefixed RELAY_, in ascending
// precedence, and unmarshals the merged result into a Config.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", 7546)
	v.SetDefault("chain_id", "0x12a")
	v.SetDefault("mirror_node_url", "http://localhost:5551")
	v.SetDefault("consensus_endpoint", "localhost:50211")
	v.SetDefault("max_fee_history_block_count", 1024)
	v.SetDefault("cache_ttl", time.Hour)
	v.SetDefault("log_level", "info")
	v.SetDefault("environment", "development")
}

// BindFlags wires a cobra command's flag set into viper so CLI flags take
// precedence over config file and environment values.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	return v.BindPFlags(flags)
}
