package main

import (
	"context"
	"flag"
	"os"

	"radiology-roster/internal/config"
	"radiology-roster/internal/export"
	"radiology-roster/internal/logging"
	"radiology-roster/internal/models"
	"radiology-roster/internal/rota"
)

func main() {
	planPath := flag.String("plan", "", "path to a YAML plan file")
	format := flag.String("format", "csv", "output format: csv or json")
	out := flag.String("out", "", "output file, stdout when empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	logger := logging.Setup(string(cfg.App.Env))

	if *planPath == "" {
		logger.Error().Msg("missing -plan flag")
		flag.Usage()
		os.Exit(2)
	}

	req, err := models.LoadPlan(*planPath)
	if err != nil {
		logger.Error().Err(err).Str("plan", *planPath).Msg("loading plan failed")
		os.Exit(1)
	}

	engine := rota.NewEngine(logger)
	sched, err := engine.Run(context.Background(), req)
	if err != nil {
		logger.Error().Err(err).Msg("scheduling failed")
		os.Exit(1)
	}

	exporter := export.NewService(logger)
	var result *export.Result
	switch *format {
	case "csv":
		result, err = exporter.ToCSV(sched)
	case "json":
		result, err = exporter.ToJSON(sched)
	default:
		logger.Error().Str("format", *format).Msg("unknown format, want csv or json")
		os.Exit(2)
	}
	if err != nil {
		logger.Error().Err(err).Msg("export failed")
		os.Exit(1)
	}

	if *out == "" {
		os.Stdout.Write(result.Data)
		return
	}
	if err := os.WriteFile(*out, result.Data, 0o644); err != nil {
		logger.Error().Err(err).Str("out", *out).Msg("writing output failed")
		os.Exit(1)
	}
	logger.Info().Str("out", *out).Int("days", len(sched.Days)).Msg("schedule written")
}
