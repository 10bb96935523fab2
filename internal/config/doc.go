// Package config handles configuration loading for stockwatch.
//
// # Overview
//
// Configuration is optional. When no file exists every setting falls back to a
// built-in default, so a bare `stockwatch` in any directory reads and writes
// stock.csv and stock_log.csv next to the operator.
//
// # Configuration File
//
// Location (first match wins):
//
//  1. Path from STOCKWATCH_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/stockwatch/config.yaml
//  3. ~/.config/stockwatch/config.yaml
//
// Files ending in .toml are parsed as TOML; anything else is parsed as YAML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	files:
//	  stock_path: "${STOCK_DIR}/stock.csv"
//
// Syntax: ${VAR_NAME}. Unset variables expand to an empty string.
//
// # Configuration Sections
//
// Files:
//
//	files:
//	  stock_path: "stock.csv"      # name,qty,min persistence file
//	  log_path: "stock_log.csv"    # append-only audit trail
//
// History mirror:
//
//	history:
//	  enabled: false
//	  path: "~/.local/share/stockwatch/history.db"
//
// Metrics:
//
//	metrics:
//	  textfile: "/var/lib/node_exporter/textfile/stockwatch.prom"
//
// Logging:
//
//	logging:
//	  level: "warn"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// The same settings in TOML:
//
//	[files]
//	stock_path = "stock.csv"
//
//	[logging]
//	level = "debug"
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
package config
