package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/insurdesk/backoffice/internal/pkg/application/console"
	"github.com/spf13/viper"
)

const (
	cfgKeyEndpoint = "endpoint"
	cfgKeyDebug    = "debug"
	cfgKeyCatalog  = "catalog"

	defaultEndpoint = "http://localhost:8080"
)

// loadConfiguration resolves the console configuration with the usual
// precedence: flags over config file over environment over defaults.
// The optional catalog file (endpoint + resource list) uses the same
// format as the application's LoadConfiguration.
func loadConfiguration(ctx context.Context) (console.Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyEndpoint, env.GetVariableOrDefault(ctx, "BACKOFFICE_ENDPOINT", defaultEndpoint))
	v.SetDefault(cfgKeyDebug, false)

	if flagConfigFile != "" {
		v.SetConfigFile(flagConfigFile)
	} else {
		v.SetConfigName(".backoffice")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".backoffice"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// a missing config file is not an error
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return console.Config{}, err
		}
	}

	if catalogPath := v.GetString(cfgKeyCatalog); catalogPath != "" {
		f, err := os.Open(catalogPath)
		if err != nil {
			return console.Config{}, err
		}
		defer f.Close()

		cfg, err := console.LoadConfiguration(f)
		if err != nil {
			return console.Config{}, err
		}

		applyOverrides(cfg, v)
		return *cfg, nil
	}

	cfg := console.DefaultConfiguration(v.GetString(cfgKeyEndpoint))
	applyOverrides(&cfg, v)
	return cfg, nil
}

func applyOverrides(cfg *console.Config, v *viper.Viper) {
	if flagEndpoint != "" {
		cfg.Endpoint = flagEndpoint
	} else if cfg.Endpoint == "" {
		cfg.Endpoint = v.GetString(cfgKeyEndpoint)
	}

	if flagDebug || v.GetBool(cfgKeyDebug) {
		cfg.Debug = true
	}
}
