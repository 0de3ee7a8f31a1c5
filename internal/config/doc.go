// Package config loads server configuration from a YAML file and overlays
// GODOTMCP_-prefixed environment variables on top, following the
// .env-loading conventions used across the pack (yaml.v3 + mapstructure
// decoding, godotenv for local overrides). ${VAR} references inside the
// YAML file are not expanded.
//
// # Basic Usage
//
//	cfg, err := config.Load("godotmcp.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store, err := indexstore.Open(cfg.Index.Dir)
package config
