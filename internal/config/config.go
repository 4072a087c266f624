// Package config defines the configuration model for a catalog summary run.
// A single Pipeline value carries everything a run needs; the driver builds it
// once (defaults, then file, then environment, then flags) and passes it down
// explicitly.
//
// Example (trimmed, JSON):
//
//	{
//	  "job":    "netflix",
//	  "source": { "kind": "file", "file": { "path": "netflix_data.csv" } },
//	  "parser": { "options": { "comma": ",", "trim_space": true } },
//	  "report": { "backend": "html", "output_dir": "charts",
//	              "top_n": { "ratings": 8, "countries": 6, "genres": 6 } }
//	}
package config

// Pipeline is the top-level configuration object.
type Pipeline struct {
	// Job labels logs and metrics for this run.
	Job string `koanf:"job" json:"job"`

	Source    Source    `koanf:"source" json:"source"`
	Parser    Parser    `koanf:"parser" json:"parser"`
	Clean     Clean     `koanf:"clean" json:"clean"`
	Normalize Normalize `koanf:"normalize" json:"normalize"`
	Report    Report    `koanf:"report" json:"report"`
	Metrics   Metrics   `koanf:"metrics" json:"metrics"`
	Log       Log       `koanf:"log" json:"log"`
}

// Source identifies where the dataset comes from.
type Source struct {
	// Kind selects the source implementation: "file", "http" or "sql".
	Kind string `koanf:"kind" json:"kind"`

	File SourceFile `koanf:"file" json:"file"`
	HTTP SourceHTTP `koanf:"http" json:"http"`
	SQL  SourceSQL  `koanf:"sql" json:"sql"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the delimited input file.
	Path string `koanf:"path" json:"path"`
}

// SourceHTTP holds configuration for the "http" source kind.
type SourceHTTP struct {
	URL            string `koanf:"url" json:"url"`
	TimeoutSeconds int    `koanf:"timeout_seconds" json:"timeout_seconds"`
	MaxRetries     int    `koanf:"max_retries" json:"max_retries"`
	Insecure       bool   `koanf:"insecure_skip_verify" json:"insecure_skip_verify"`
}

// SourceSQL holds configuration for the "sql" source kind.
type SourceSQL struct {
	// Driver selects a registered sqldb kind: postgres, sqlite, mssql, mysql.
	Driver string `koanf:"driver" json:"driver"`
	DSN    string `koanf:"dsn" json:"dsn"`

	// Query must return the catalog columns by name.
	Query string `koanf:"query" json:"query"`
}

// Parser configures delimited-text parsing for file and http sources.
type Parser struct {
	// Options is interpreted by the csv parser. Keys:
	//   comma (string), trim_space (bool), lazy_quotes (bool),
	//   header_map (object: source header -> column name)
	Options Options `koanf:"options" json:"options"`
}

// Clean configures the cleaning stage.
type Clean struct {
	// Dedup toggles exact-row de-duplication.
	Dedup bool `koanf:"dedup" json:"dedup"`

	// NormalizeText rewrites text cells (NFC, no-break spaces, control
	// characters, surrounding whitespace) after de-duplication. Off by
	// default so cells keep their source text.
	NormalizeText bool `koanf:"normalize_text" json:"normalize_text"`

	// Defaults maps column -> replacement for missing cells.
	Defaults map[string]string `koanf:"defaults" json:"defaults"`
}

// Normalize configures the normalisation stage.
type Normalize struct {
	DateColumn string `koanf:"date_column" json:"date_column"`

	// DateLayouts are tried, in order, before the tolerant fallback parser.
	DateLayouts []string `koanf:"date_layouts" json:"date_layouts"`

	DurationSource string `koanf:"duration_source" json:"duration_source"`
	DurationTarget string `koanf:"duration_target" json:"duration_target"`
}

// Report configures aggregation sizes and the rendering backend.
type Report struct {
	// Backend selects the renderer: "html", "json" or "none".
	Backend   string `koanf:"backend" json:"backend"`
	OutputDir string `koanf:"output_dir" json:"output_dir"`

	TopN TopN `koanf:"top_n" json:"top_n"`

	DurationBins    int  `koanf:"duration_bins" json:"duration_bins"`
	DurationDensity bool `koanf:"duration_density" json:"duration_density"`

	// DurationUnits is "minutes" (only minute-denominated rows feed the
	// duration statistics and histogram) or "all".
	DurationUnits string `koanf:"duration_units" json:"duration_units"`
}

// TopN caps the bar charts.
type TopN struct {
	Ratings   int `koanf:"ratings" json:"ratings"`
	Countries int `koanf:"countries" json:"countries"`
	Genres    int `koanf:"genres" json:"genres"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none", "pushgateway" or "datadog".
	Backend        string   `koanf:"backend" json:"backend"`
	PushgatewayURL string   `koanf:"pushgateway_url" json:"pushgateway_url"`
	DatadogAddr    string   `koanf:"datadog_addr" json:"datadog_addr"`
	Namespace      string   `koanf:"namespace" json:"namespace"`
	Tags           []string `koanf:"tags" json:"tags"`
}

// Log configures the logger.
type Log struct {
	Level string `koanf:"level" json:"level"`

	// File, when set, receives a rotated copy of every log line.
	File       string `koanf:"file" json:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups" json:"max_backups"`
	Compress   bool   `koanf:"compress" json:"compress"`
}

// Options is a small helper to fetch typed values from a free-form map.
// Values may come from JSON (numbers decode as float64) or TOML (integers
// decode as int64); getters return def when a key is absent or of an
// unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case int64:
			return int(n)
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		switch m := v.(type) {
		case map[string]any:
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		case map[string]string:
			for k, s := range m {
				res[k] = s
			}
		}
	}
	return res
}
