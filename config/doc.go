// Package config loads and validates studyhub configuration.
//
// Values come from, in increasing precedence: a YAML config file, a .env
// file, and STUDYHUB_* environment variables. Environment keys are mapped
// onto nested config keys, so STUDYHUB_API_BASE_URL sets api.base_url.
//
// # Usage
//
//	var cfg config.Config
//	if err := config.LoadConfig("studyhub", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
