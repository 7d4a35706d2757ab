package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "TABULA"

	cfgKeySeedSource       = "seed.source"
	cfgKeySeedPath         = "seed.path"
	cfgKeySeedTable        = "seed.table"
	cfgKeyLogLevel         = "log.level"
	cfgKeyLogFormat        = "log.format"
	cfgKeyLogSeqURL        = "log.seq_url"
	cfgKeyReportRejections = "edit.report_rejections"
)

// envKeys are the config keys that may be overridden by TABULA_* variables.
// seed.path is resolved separately so relative values keep their meaning.
var envKeys = []string{
	cfgKeySeedSource,
	cfgKeySeedTable,
	cfgKeyLogLevel,
	cfgKeyLogFormat,
	cfgKeyLogSeqURL,
	cfgKeyReportRejections,
}

// flagKeys maps persistent flag names to the config keys they override.
var flagKeys = map[string]string{
	"seed-source":       cfgKeySeedSource,
	"seed-table":        cfgKeySeedTable,
	"log-level":         cfgKeyLogLevel,
	"report-rejections": cfgKeyReportRejections,
}

// bindFlags lets flags override config.yaml and environment values.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	for name, key := range flagKeys {
		_ = v.BindPFlag(key, fs.Lookup(name))
	}
}

// loadConfig reads config.yaml from configDir using Viper. Precedence is
// flag > TABULA_* environment > config.yaml > defaults. A missing
// config.yaml is not an error.
func loadConfig(v *viper.Viper, configDir string) (types.Config, error) {
	def := types.DefaultConfig()
	v.SetDefault(cfgKeySeedSource, def.Seed.Source)
	v.SetDefault(cfgKeySeedPath, def.Seed.Path)
	v.SetDefault(cfgKeySeedTable, def.Seed.Table)
	v.SetDefault(cfgKeyLogLevel, def.Log.Level)
	v.SetDefault(cfgKeyLogFormat, def.Log.Format)
	v.SetDefault(cfgKeyLogSeqURL, def.Log.SeqURL)
	v.SetDefault(cfgKeyReportRejections, def.Edit.ReportRejections)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return types.Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
