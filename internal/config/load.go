package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

// EnvPrefix prefixes every environment override. Nesting uses a double
// underscore: CATSUM_SOURCE__FILE__PATH sets source.file.path.
const EnvPrefix = "CATSUM_"

// DefaultSourcePath is read when nothing else is configured.
const DefaultSourcePath = "netflix_data.csv"

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"job": "catalog_summary",

		"source.kind":                 "file",
		"source.file.path":            DefaultSourcePath,
		"source.http.timeout_seconds": 30,
		"source.http.max_retries":     3,
		"parser.options.comma":        ",",
		"parser.options.trim_space":   false,
		"parser.options.lazy_quotes":  false,
		"clean.dedup":                 true,
		"clean.normalize_text":        false,
		"clean.defaults.Country":      "Unknown",
		"clean.defaults.Rating":       "Not Rated",
		"clean.defaults.Genre":        "Unknown",
		"clean.defaults.Director":     "Not Given",
		"clean.defaults.Cast":         "Not Given",
		"normalize.date_column":       "Date_Added",
		"normalize.duration_source":   "Duration",
		"normalize.duration_target":   "Duration_Min",
		"report.backend":              "html",
		"report.output_dir":           "charts",
		"report.top_n.ratings":        8,
		"report.top_n.countries":      6,
		"report.top_n.genres":         6,
		"report.duration_bins":        20,
		"report.duration_density":     true,
		"report.duration_units":       "minutes",
		"metrics.backend":             "none",
		"metrics.pushgateway_url":     "http://localhost:9091",
		"metrics.datadog_addr":        "127.0.0.1:8125",
		"metrics.namespace":           "catalog_summary.",
		"log.level":                   "info",
		"log.max_size_mb":             10,
		"log.max_backups":             3,
	}
}

// Default returns the built-in configuration.
func Default() Pipeline {
	p, err := load("", false)
	if err != nil {
		// The defaults map is static; failing to decode it is a programming error.
		panic(fmt.Sprintf("config: decode defaults: %v", err))
	}
	return p
}

// Load layers the defaults, the optional file at path (".json" or ".toml"),
// and CATSUM_* environment overrides, then decodes the result.
func Load(path string) (Pipeline, error) {
	return load(path, true)
}

func load(path string, withEnv bool) (Pipeline, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Pipeline{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			parser = toml.Parser()
		case ".json", "":
			parser = json.Parser()
		default:
			return Pipeline{}, fmt.Errorf("config: unsupported config format %q", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Pipeline{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if withEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return Pipeline{}, fmt.Errorf("config: load environment: %w", err)
		}
	}

	var p Pipeline
	if err := k.Unmarshal("", &p); err != nil {
		return Pipeline{}, fmt.Errorf("config: decode: %w", err)
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	return p, nil
}

// envKey maps CATSUM_SOURCE__FILE__PATH to source.file.path.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}
