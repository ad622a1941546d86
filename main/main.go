package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found")
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger(level string) (*slog.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zl, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("error building logger: %w", err)
	}

	log := slog.New(zapslog.NewHandler(zl.Core()))
	return log, func() { _ = zl.Sync() }, nil
}
