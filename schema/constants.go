package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and run tracking.
	DatabaseBackend string

	// HitTestMode decides which scales are used to hit-test brush selections.
	HitTestMode string

	// TypeMode decides how an empty type column is filled in during ingestion.
	TypeMode string

	// SortOrder represents the ordering of commit listings.
	SortOrder string

	// BrushPhase is the lifecycle stage of a brush gesture.
	BrushPhase string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	BoltBackend       DatabaseBackend = "bolt"
	NoneBackend       DatabaseBackend = "none"
)

// Hit-test modes.
const (
	// HitTestFull uses the scales built once from every commit, matching the plotted positions.
	HitTestFull HitTestMode = "full" // default
	// HitTestVisible rebuilds the scales from the visible commits whenever the cutoff changes.
	HitTestVisible HitTestMode = "visible"
)

// Type modes.
const (
	TypeExtension TypeMode = "extension" // default
	TypeLanguage  TypeMode = "language"
)

// Sort orders.
const (
	SortDataset SortOrder = "dataset" // default
	SortTime    SortOrder = "time"
	SortLines   SortOrder = "lines"
)

// Brush phases.
const (
	BrushStart BrushPhase = "start"
	BrushMove  BrushPhase = "brush"
	BrushEnd   BrushPhase = "end"
)

// Statistic labels in display order.
const (
	StatCommits       = "COMMITS"
	StatFiles         = "FILES"
	StatLongestFile   = "LONGEST FILE"
	StatMaxFileLength = "MAX FILE LENGTH"
	StatActiveTime    = "MOST ACTIVE TIME"
	StatActiveDay     = "MOST ACTIVE DAY"
)

// Time-of-day labels.
const (
	Morning   = "Morning"
	Afternoon = "Afternoon"
	Evening   = "Evening"
	Night     = "Night"
)

// UnknownFile is reported as the longest file when there are no rows.
const UnknownFile = "Unknown"

// DefaultRepoURL is the repository base used to derive commit URLs.
const DefaultRepoURL = "https://github.com/vis-society/lab-7"

// DaysOfWeek maps time.Weekday indices to their names.
var DaysOfWeek = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Tableau10 is the ordinal palette used to color line types.
var Tableau10 = [10]string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	BoltBackend:       {},
	NoneBackend:       {},
}

// ValidHitTestModes lists all valid hit-test modes.
var ValidHitTestModes = map[HitTestMode]struct{}{
	HitTestFull:    {},
	HitTestVisible: {},
}

// ValidTypeModes lists all valid type modes.
var ValidTypeModes = map[TypeMode]struct{}{
	TypeExtension: {},
	TypeLanguage:  {},
}

// ValidSortOrders lists all valid sort orders.
var ValidSortOrders = map[SortOrder]struct{}{
	SortDataset: {},
	SortTime:    {},
	SortLines:   {},
}

// Display layouts for timestamps.
const (
	// SliderTimeLayout is a long date with a short time, e.g. "January 2, 2024 at 2:00 PM".
	SliderTimeLayout = "January 2, 2006 at 3:04 PM"
	// FullDateLayout is a full date, e.g. "Tuesday, January 2, 2024".
	FullDateLayout = "Monday, January 2, 2006"
	// StoryTimeLayout is a full date with a short time.
	StoryTimeLayout = "Monday, January 2, 2006 at 3:04 PM"
	// ClockLayout is the time of day used when the raw time column is empty.
	ClockLayout = "3:04:05 PM"
)

// AnyTimeLabel is shown instead of a cutoff when every commit is visible.
const AnyTimeLabel = "any time"

// MaxProgress is the slider position that shows every commit.
const MaxProgress = 100.0
