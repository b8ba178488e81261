package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "NOVAQUERY"

type NovaQueryConfig struct {
	AppName string `mapstructure:"app_name"`

	Server struct {
		Addr  string `mapstructure:"addr"`
		Debug bool   `mapstructure:"debug"`
	} `mapstructure:"server"`

	Client struct {
		HistoryFile string `mapstructure:"history_file"`
		HistoryMax  int    `mapstructure:"history_max"`
	} `mapstructure:"client"`

	Executor struct {
		StatementCache int `mapstructure:"statement_cache"`
	} `mapstructure:"executor"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "novaquery")
	v.SetDefault("server.addr", "127.0.0.1:8866")
	v.SetDefault("server.debug", false)
	v.SetDefault("client.history_file", "")
	v.SetDefault("client.history_max", 2000)
	v.SetDefault("executor.statement_cache", 256)
}

// LoadConfig reads a YAML config file. An empty path yields the defaults.
// NOVAQUERY_<SECTION>_<KEY> environment variables override both.
func LoadConfig(path string) (*NovaQueryConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg NovaQueryConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
