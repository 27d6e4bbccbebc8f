package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/iwvelando/max-defense/internal/catalog"
	"github.com/iwvelando/max-defense/internal/config"
	"github.com/iwvelando/max-defense/internal/optimizer"
	"github.com/iwvelando/max-defense/internal/server"
	"github.com/iwvelando/max-defense/pkg/constants"
	"github.com/iwvelando/max-defense/pkg/output"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// overrides carries the command line values that take precedence over the
// configuration file. Empty strings and negative numbers mean "not set".
type overrides struct {
	catalogPath  string
	budget       int
	solver       string
	outputFormat string
	printTable   bool
}

func applyOverrides(conf *config.Configuration, o overrides) error {
	if o.catalogPath != "" {
		conf.Catalog.Path = o.catalogPath
	}
	if o.budget >= 0 {
		conf.Budget = o.budget
	}
	if o.solver != "" {
		conf.Solver = o.solver
	}
	if o.outputFormat != "" {
		conf.Output.Format = o.outputFormat
	}
	if o.printTable {
		conf.Output.PrintTable = true
	}

	conf.Normalize()
	return conf.Validate()
}

func serve(serverConfigPath, logLevel string) {
	serverConf, err := server.LoadConfig(serverConfigPath)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", serverConfigPath, err)
		return
	}

	logger, err := initializeLogger(serverConf.Logging, logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           server.NewHandler(logger, serverConf, version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server",
		zap.String("op", "main.serve"),
		zap.String("address", serverConf.Address),
		zap.Int64("maxUploadSize", serverConf.UploadSizeBytes()),
		zap.Int("maxExhaustiveItems", serverConf.MaxExhaustiveItems),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped",
			zap.String("op", "main.serve"),
			zap.Error(err),
		)
	}
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	catalogPath := flag.String("catalog", "", "path to armor catalog override")
	budget := flag.Int("budget", -1, "gold budget override")
	solver := flag.String("solver", "", "solver override: dynamic, exhaustive, both")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	printTable := flag.Bool("print-table", false, "print the dynamic-programming table")
	serveMode := flag.Bool("serve", false, "run the HTTP API instead of a single solve")
	serverConfig := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	flag.Parse()

	if *serveMode {
		serve(*serverConfig, *logLevel)
		return
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	err = applyOverrides(conf, overrides{
		catalogPath:  *catalogPath,
		budget:       *budget,
		solver:       *solver,
		outputFormat: *outputFormatFlag,
		printTable:   *printTable,
	})
	if err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	items, err := catalog.LoadFile(logger, conf.Catalog.Path)
	if err != nil {
		logger.Fatal("failed to load armor catalog",
			zap.String("op", "main"),
			zap.String("path", conf.Catalog.Path),
			zap.Error(err),
		)
	}

	runner, err := optimizer.NewRunner(logger, conf)
	if err != nil {
		logger.Fatal("failed to initialize optimizer",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	result, err := runner.Run(items)
	if err != nil {
		logger.Fatal("failed to compute optimal armor",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch conf.Output.Format {
	case constants.OutputFormatPretty:
		output.PrettyFormat(result)
	case constants.OutputFormatCSV:
		output.CsvFormat(result)
	case constants.OutputFormatJSON:
		if err := output.JSONFormat(result); err != nil {
			logger.Fatal("failed to write JSON output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	if conf.Output.PrintTable && result.Table != nil {
		output.FormatTable(os.Stdout, result.Table)
	}
}
