// Package constants provides shared constants for the max-defense application.
package constants

// Catalog format constants
const (
	// CatalogDelimiter separates the fields of a catalog row
	CatalogDelimiter = '^'
)

// Solver selection constants
const (
	// SolverDynamic selects the dynamic-programming solver
	SolverDynamic = "dynamic"

	// SolverExhaustive selects the exhaustive-search solver
	SolverExhaustive = "exhaustive"

	// SolverBoth runs both solvers and cross-checks their results
	SolverBoth = "both"
)

// Optimizer defaults
const (
	// DefaultBudget is the gold budget used when none is configured
	DefaultBudget = 500

	// DefaultFilterMinDefense is the exclusive lower defense bound of the filter
	DefaultFilterMinDefense = 0.0

	// DefaultFilterMaxDefense is the inclusive upper defense bound of the filter
	DefaultFilterMaxDefense = 1e9

	// DefaultFilterLimit caps the filtered catalog so exhaustive search stays tractable
	DefaultFilterLimit = 20

	// DefenseTolerance is the absolute tolerance used when comparing solver results
	DefenseTolerance = 1e-9

	// MaxTablePrintSize is the largest table dimension rendered by the table printer
	MaxTablePrintSize = 250
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for catalogs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultServerExhaustiveLimit caps exhaustive search input size per request
	DefaultServerExhaustiveLimit = 24

	// DefaultServerMaxTableCells caps the dynamic-programming table size per request
	DefaultServerMaxTableCells = 50_000_000
)
