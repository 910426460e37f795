package contract

import (
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/locviz/schema"
)

// Default values for configuration.
const (
	DefaultSource         = "loc.csv"
	DefaultExampleCommits = 40
	DefaultExampleSeed    = 1
	DefaultPlotWidth      = 1000
	DefaultPlotHeight     = 600
	MinPlotSize           = 100
	MaxResultLimit        = 10000
	MaxExampleCommits     = 100000
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation for --from and --to.
var DateTimeFormat = time.RFC3339

// DataWindow is a brush expressed in data space instead of pixels.
type DataWindow struct {
	From     time.Time
	To       time.Time
	HourFrom float64
	HourTo   float64
}

// Config holds the runtime configuration for a run.
// This struct is the "final, validated" config.
type Config struct {
	Source     string
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	RepoURL   string
	Location  *time.Location
	ConvertTZ bool
	TypeMode  schema.TypeMode

	HitTest  schema.HitTestMode
	Progress float64
	Region   *schema.Region
	Window   *DataWindow

	Fallback       bool
	Example        bool // Generate synthetic rows instead of reading a repository
	ExampleCommits int
	ExampleSeed    int64

	Workers  int
	Limit    int // 0 = no limit
	Sort     schema.SortOrder
	Excludes []string

	PlotWidth  int
	PlotHeight int
	Open       bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SourceStr string

	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Width          int     `mapstructure:"width"`
	Color          string  `mapstructure:"color"`
	RepoURL        string  `mapstructure:"repo-url"`
	TZ             string  `mapstructure:"tz"`
	ConvertTZ      bool    `mapstructure:"convert-tz"`
	TypeMode       string  `mapstructure:"type-mode"`
	HitTest        string  `mapstructure:"hit-test"`
	Progress       float64 `mapstructure:"progress"`
	Region         string  `mapstructure:"region"`
	From           string  `mapstructure:"from"`
	To             string  `mapstructure:"to"`
	HourFrom       float64 `mapstructure:"hour-from"`
	HourTo         float64 `mapstructure:"hour-to"`
	Fallback       string  `mapstructure:"fallback"`
	Example        bool    `mapstructure:"example"`
	ExampleCommits int     `mapstructure:"example-commits"`
	ExampleSeed    int64   `mapstructure:"example-seed"`
	Workers        int     `mapstructure:"workers"`
	Limit          int     `mapstructure:"limit"`
	Sort           string  `mapstructure:"sort"`
	Exclude        string  `mapstructure:"exclude"`
	PlotWidth      int     `mapstructure:"plot-width"`
	PlotHeight     int     `mapstructure:"plot-height"`
	Open           bool    `mapstructure:"open"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`
	RunsBackend    string  `mapstructure:"runs-backend"`
	RunsDBConnect  string  `mapstructure:"runs-db-connect"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.Region != nil {
		r := *c.Region
		clone.Region = &r
	}
	if c.Window != nil {
		w := *c.Window
		clone.Window = &w
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeZone(cfg, input); err != nil {
		return err
	}
	if err := processSelection(cfg, input); err != nil {
		return err
	}
	if err := processExample(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.BoltBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and run backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, bolt, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend == "" {
		cfg.RunsBackend = schema.NoneBackend
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok || cfg.RunsBackend == schema.BoltBackend {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return err
	}

	// SQLite stores must not share a file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		runsPath := cfg.RunsDBConnect
		if runsPath == "" {
			runsPath = GetRunsDBFilePath()
		}
		if cachePath == runsPath {
			return fmt.Errorf("cache and runs storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = strings.TrimSpace(input.SourceStr)
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Open = input.Open
	cfg.ConvertTZ = input.ConvertTZ
	cfg.Example = input.Example

	cfg.RepoURL = strings.TrimRight(strings.TrimSpace(input.RepoURL), "/")
	if cfg.RepoURL == "" {
		cfg.RepoURL = schema.DefaultRepoURL
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	fallback, err := ParseBoolString(input.Fallback)
	if err != nil {
		return fmt.Errorf("invalid --fallback value: %w", err)
	}
	cfg.Fallback = fallback

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}

	cfg.TypeMode = schema.TypeMode(strings.ToLower(input.TypeMode))
	if _, ok := schema.ValidTypeModes[cfg.TypeMode]; !ok {
		return fmt.Errorf("invalid type mode '%s'. must be extension, language", input.TypeMode)
	}

	cfg.HitTest = schema.HitTestMode(strings.ToLower(input.HitTest))
	if _, ok := schema.ValidHitTestModes[cfg.HitTest]; !ok {
		return fmt.Errorf("invalid hit-test mode '%s'. must be full, visible", input.HitTest)
	}

	cfg.Sort = schema.SortOrder(strings.ToLower(input.Sort))
	if _, ok := schema.ValidSortOrders[cfg.Sort]; !ok {
		return fmt.Errorf("invalid sort order '%s'. must be dataset, time, lines", input.Sort)
	}

	if input.PlotWidth < MinPlotSize || input.PlotHeight < MinPlotSize {
		return fmt.Errorf("plot size must be at least %dx%d (received %dx%d)", MinPlotSize, MinPlotSize, input.PlotWidth, input.PlotHeight)
	}
	cfg.PlotWidth = input.PlotWidth
	cfg.PlotHeight = input.PlotHeight

	cfg.Excludes = nil
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}
	return nil
}

// processTimeZone resolves --tz into a location. Empty means UTC.
func processTimeZone(cfg *Config, input *ConfigRawInput) error {
	name := strings.TrimSpace(input.TZ)
	switch strings.ToLower(name) {
	case "", "utc":
		cfg.Location = time.UTC
	case "local":
		cfg.Location = time.Local
	default:
		loc, err := time.LoadLocation(name)
		if err != nil {
			return fmt.Errorf("invalid time zone '%s': %w", name, err)
		}
		cfg.Location = loc
	}
	return nil
}

// processSelection validates the slider position and the brush, given either
// in pixels (--region) or in data space (--from/--to/--hour-from/--hour-to).
func processSelection(cfg *Config, input *ConfigRawInput) error {
	if math.IsNaN(input.Progress) || input.Progress < 0 || input.Progress > schema.MaxProgress {
		return fmt.Errorf("progress must be between 0 and %.0f (received %v)", schema.MaxProgress, input.Progress)
	}
	cfg.Progress = input.Progress

	cfg.Region = nil
	if s := strings.TrimSpace(input.Region); s != "" {
		r, err := schema.ParseRegion(s)
		if err != nil {
			return fmt.Errorf("invalid --region: %w", err)
		}
		cfg.Region = &r
	}

	cfg.Window = nil
	from, to := strings.TrimSpace(input.From), strings.TrimSpace(input.To)
	if from == "" && to == "" {
		return nil
	}
	if cfg.Region != nil {
		return fmt.Errorf("--region cannot be combined with --from/--to")
	}
	if from == "" || to == "" {
		return fmt.Errorf("--from and --to must be given together")
	}
	start, err := time.Parse(DateTimeFormat, from)
	if err != nil {
		return fmt.Errorf("invalid --from '%s'. Expected %s: %w", from, DateTimeFormat, err)
	}
	end, err := time.Parse(DateTimeFormat, to)
	if err != nil {
		return fmt.Errorf("invalid --to '%s'. Expected %s: %w", to, DateTimeFormat, err)
	}
	if start.After(end) {
		return fmt.Errorf("--from (%s) cannot be after --to (%s)", from, to)
	}
	if input.HourFrom < 0 || input.HourTo > 24 || input.HourFrom > input.HourTo {
		return fmt.Errorf("hour range must satisfy 0 <= hour-from <= hour-to <= 24 (received %v..%v)", input.HourFrom, input.HourTo)
	}
	cfg.Window = &DataWindow{From: start, To: end, HourFrom: input.HourFrom, HourTo: input.HourTo}
	return nil
}

// processExample validates the fallback dataset parameters.
func processExample(cfg *Config, input *ConfigRawInput) error {
	if input.ExampleCommits <= 0 || input.ExampleCommits > MaxExampleCommits {
		return fmt.Errorf("example-commits must be between 1 and %d (received %d)", MaxExampleCommits, input.ExampleCommits)
	}
	cfg.ExampleCommits = input.ExampleCommits
	cfg.ExampleSeed = input.ExampleSeed
	return nil
}
