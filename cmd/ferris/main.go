// Command ferris builds a voxel Ferris wheel from a config file or a ride
// script, animates it for a number of fixed ticks and prints a summary.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chazu/ferris/internal/config"
	"github.com/chazu/ferris/internal/logging"
	"github.com/chazu/ferris/pkg/kernel/sdfx"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var errEvaluation = errors.New("ride evaluation failed")

type flags struct {
	configDir string
	script    string
	ticks     int
	dt        float64
	meshOut   string
	logLevel  string
}

func main() {
	var f flags
	flag.StringVar(&f.configDir, "config", "", "directory containing "+config.FileName)
	flag.StringVar(&f.script, "script", "", "ride script to evaluate instead of the config file")
	flag.IntVar(&f.ticks, "ticks", 0, "update ticks to run after building")
	flag.Float64Var(&f.dt, "dt", 1.0/60, "seconds per tick")
	flag.StringVar(&f.meshOut, "mesh-out", "", "write tessellated meshes as JSON to this file")
	flag.StringVar(&f.logLevel, "log-level", "", "log level, overrides the config file")
	flag.Parse()

	if err := run(f, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ferris:", err)
		os.Exit(1)
	}
}

func run(f flags, stdout io.Writer) error {
	if f.configDir != "" {
		if err := config.Load(f.configDir); err != nil {
			return err
		}
	} else {
		config.SetDefaults()
	}

	level := f.logLevel
	if level == "" {
		level = config.GetString("logLevel")
	}
	log, closeLog, err := newLogger(config.GetString("logsDir"), level)
	if err != nil {
		return err
	}
	defer closeLog()
	runID := uuid.NewString()
	log = log.With().Str("run", runID).Logger()

	app := NewApp(sdfx.NewLibrary(), log)
	opts := RunOptions{Ticks: f.ticks, DT: f.dt, Meshes: f.meshOut != ""}

	var result EvalResult
	if f.script != "" {
		source, err := os.ReadFile(f.script)
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}
		result = app.Evaluate(string(source), opts)
	} else {
		cfg, err := config.Ride()
		if err != nil {
			return err
		}
		result = app.Run(cfg, opts)
	}

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				log.Error().Int("line", e.Line).Int("col", e.Col).Msg(e.Message)
			} else {
				log.Error().Msg(e.Message)
			}
		}
		return errEvaluation
	}

	result.Summary.RunID = runID
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Summary); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if f.meshOut != "" {
		if err := writeMeshes(f.meshOut, result.Meshes); err != nil {
			return err
		}
		log.Info().Str("path", f.meshOut).Int("meshes", len(result.Meshes)).Msg("meshes written")
	}
	return nil
}

// newLogger logs to stderr. When logsDir is set it also writes a session
// log file there.
func newLogger(logsDir, level string) (zerolog.Logger, func(), error) {
	if logsDir == "" {
		return logging.New(os.Stderr, level), func() {}, nil
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("creating logs dir: %w", err)
	}
	file, err := os.Create(logging.LogFilePath(logsDir, "ferris", time.Now()))
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logging.NewWithFile(file, level), func() { file.Close() }, nil
}

func writeMeshes(path string, meshes []MeshData) error {
	data, err := json.Marshal(meshes)
	if err != nil {
		return fmt.Errorf("encoding meshes: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing meshes: %w", err)
	}
	return nil
}
