package config

// Package config provides a reusable loader for the node's configuration
// files and environment variables. It is versioned so that applications can
// depend on a stable API contract.
//
// Version: v0.2.0

import (
	"fmt"

	"github.com/spf13/viper"

	"xchain/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.2.0"

// Config represents the unified configuration for the node. It mirrors the
// structure of the YAML files under cmd/config; narrowed from the original
// multi-validator/VM sections (dropped — see DESIGN.md) down to what a
// single-operator L2 node needs.
type Config struct {
	Network struct {
		ChainID     uint64 `mapstructure:"chain_id" json:"chain_id"`
		GenesisFile string `mapstructure:"genesis_file" json:"genesis_file"`
		RPCEnabled  bool   `mapstructure:"rpc_enabled" json:"rpc_enabled"`
		RPCAddr     string `mapstructure:"rpc_addr" json:"rpc_addr"`
		BridgeAddr  string `mapstructure:"bridge_addr" json:"bridge_addr"`
	} `mapstructure:"network" json:"network"`

	// Owner configures the single trusted block producer and the bridge
	// façade's upstream dependencies (spec §4.4, §4.5).
	Owner struct {
		KeyHex      string `mapstructure:"key_hex" json:"key_hex"`
		Owshen      string `mapstructure:"owshen" json:"owshen"`
		UpstreamRPC string `mapstructure:"upstream_rpc" json:"upstream_rpc"`
	} `mapstructure:"owner" json:"owner"`

	Storage struct {
		Backend string `mapstructure:"backend" json:"backend"` // "mem" or "disk"
		DBPath  string `mapstructure:"db_path" json:"db_path"`
	} `mapstructure:"storage" json:"storage"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv() // picks up matching process environment variables

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the SYNN_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("SYNN_ENV", ""))
}
