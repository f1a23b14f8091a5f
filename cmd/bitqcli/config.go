package main

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/spacemeshos/smutil"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spacemeshos/bitqueue/config"
)

const defaultConfigFileName = "config.toml"

var defaultConfigFile = filepath.Join(smutil.GetUserHomeDirectory(), "bitqueue", defaultConfigFileName)

func loadConfig() (*config.Config, error) {
	vip := viper.New()
	_ = loadConfigFile(smutil.GetCanonicalPath(cfgFile), vip)

	// Load config if it was loaded to our viper.
	cfg := config.DefaultConfig()
	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	// Ensure cli args are higher priority than the config file.
	ensureCLIFlags(cfg)

	cfg.DataDir = smutil.GetCanonicalPath(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadConfigFile(fileLocation string, vip *viper.Viper) error {
	if fileLocation == "" {
		fileLocation = defaultConfigFile
	}

	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}

	return nil
}

// ensureCLIFlags overrides cfg fields with explicitly-set flags, matched by
// their mapstructure tag.
func ensureCLIFlags(cfg *config.Config) {
	elem := reflect.ValueOf(cfg).Elem()
	t := elem.Type()

	rootCmd.PersistentFlags().Visit(func(f *pflag.Flag) {
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).Tag.Get("mapstructure") != f.Name {
				continue
			}
			field := elem.Field(i)
			switch field.Kind() {
			case reflect.String:
				field.SetString(f.Value.String())
			case reflect.Uint, reflect.Uint64:
				v, err := strconv.ParseUint(f.Value.String(), 10, 64)
				if err == nil {
					field.SetUint(v)
				}
			}
		}
	})
}
