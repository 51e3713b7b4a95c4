package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/gold-scheme/internal/config"
	"github.com/iwvelando/gold-scheme/internal/estimate"
	"github.com/iwvelando/gold-scheme/internal/logging"
	"github.com/iwvelando/gold-scheme/pkg/constants"
	"github.com/iwvelando/gold-scheme/pkg/output"
	"github.com/iwvelando/gold-scheme/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("gold-scheme", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configLocation := flags.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flags.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flags.String("log-level", "", "log level override (debug, info, warn, error)")
	envFile := flags.String("env-file", ".env", "optional dotenv file with scheme constant overrides")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	// Dotenv values only fill variables that are not already set.
	envErr := godotenv.Load(*envFile)

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Fprintf(stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": %q}\n", *configLocation, err.Error())
		return 1
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": %q}\n", err.Error())
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	if envErr != nil {
		logger.Debug("no dotenv file loaded",
			zap.String("op", "main"),
			zap.String("path", *envFile),
			zap.Error(envErr),
		)
	}

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(),
			zap.String("op", "main"),
		)
		return 1
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	results, err := estimate.GetEstimates(logger, *conf)
	if err != nil {
		logger.Error("failed to compute estimates",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.WritePretty(stdout, results)
	case constants.OutputFormatCSV:
		err = output.WriteCSV(stdout, results)
	}
	if err != nil {
		logger.Error("failed to write estimates",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}
	return 0
}
