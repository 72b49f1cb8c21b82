// SPDX-License-Identifier: Apache-2.0

// Command tracepipe assembles and runs a trace-transformation pipeline
// from a declarative YAML definition.
//
// Usage:
//
//	tracepipe [-config pipeline.yaml] [-v]
//
// The definition lists the stages in execution order:
//
//	log_level: info
//	stages:
//	  - kind: read-raw
//	    options: {path: trace.json.gz}
//	  - kind: decompress
//	  - kind: parse-json
//	  - kind: filter
//	    options: {process: 42}
//	  - kind: tree
//	  - kind: pretty
//	  - kind: write-file
//	    options: {path: report.txt}
//
// Settings may be overridden through the environment with a TRACEPIPE_
// prefix, e.g. TRACEPIPE_LOG_LEVEL=debug.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/sam-fredrickson/tracepipe"
)

type config struct {
	LogLevel string                `koanf:"log_level"`
	Stages   []tracepipe.StageSpec `koanf:"stages"`
}

func loadConfig(path string) (*config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	// Environment overrides: TRACEPIPE_LOG_LEVEL=debug etc.
	if err := k.Load(env.Provider("TRACEPIPE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TRACEPIPE_"))
	}), nil); err != nil {
		return nil, err
	}

	if !k.Exists("log_level") {
		k.Set("log_level", "info")
	}

	var cfg config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	configPath := flag.String("config", "pipeline.yaml", "pipeline definition file")
	verbose := flag.Bool("v", false, "log each stage's start and finish")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracepipe: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))

	stages, err := tracepipe.Build(cfg.Stages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracepipe: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		for i, stage := range stages {
			stages[i] = tracepipe.Logged(slog.LevelInfo, stage)
		}
	}

	ctx := tracepipe.WithSlogger(context.Background(), logger)
	if _, err := tracepipe.Run(ctx, stages...); err != nil {
		fmt.Fprintf(os.Stderr, "tracepipe: %v\n", err)
		os.Exit(1)
	}
}
