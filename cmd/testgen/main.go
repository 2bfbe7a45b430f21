package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/BerylCAtieno/requirements-testgen/internal/config"
	"github.com/BerylCAtieno/requirements-testgen/internal/generator"
	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	logger := utils.NewLoggerTo(os.Stderr, cfg.LogLevel)
	factory := generator.NewFactory(cfg, &http.Client{Timeout: cfg.GenerateTimeout}, logger)

	if err := newRootCmd(cfg, factory).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
