package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/coverage-calculator/internal/config"
	"github.com/iwvelando/coverage-calculator/internal/logging"
	"github.com/iwvelando/coverage-calculator/internal/summary"
	"github.com/iwvelando/coverage-calculator/pkg/constants"
	"github.com/iwvelando/coverage-calculator/pkg/format"
	"github.com/iwvelando/coverage-calculator/pkg/output"
	"github.com/iwvelando/coverage-calculator/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	localeFlag := flag.String("locale", "", "locale override for number grouping (e.g. cs, en)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	locale := conf.Output.Locale
	if *localeFlag != "" {
		locale = *localeFlag
	}
	formatter, err := format.NewFormatter(locale)
	if err != nil {
		logger.Fatal("failed to initialize number formatting",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	summaries, err := summary.GetSummaries(context.Background(), logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute coverage",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, summaries, formatter)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, summaries)
	case constants.OutputFormatJSON:
		err = output.JSONFormat(os.Stdout, summaries)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
