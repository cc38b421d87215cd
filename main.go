package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/tictactoe-minimax/internal"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
)

// main - is the entry point of the application. It initializes the configuration, logger, and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := initConfig()
	logger := initLogger(conf)

	logger.Info("starting tic-tac-toe minimax service",
		"storage", conf.Storage,
		"parallel_search", conf.Search.Parallel,
		"opening", conf.Game.Opening,
		"http_port", conf.HTTPPort,
		"socket_port", conf.SocketPort,
	)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config; without a config.yml next to the binary only the environment is read.
func initConfig() *config.Config {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	path := filepath.Join(baseDir, "config.yml")
	if _, err = os.Stat(path); err != nil {
		return config.MustLoadEnv()
	}

	return config.MustLoad(path)
}

// initialize logger; an unknown level falls back to info.
func initLogger(conf *config.Config) *slog.Logger {
	level := slog.LevelInfo
	levelErr := level.UnmarshalText([]byte(conf.LogLevel))
	if levelErr != nil {
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	if levelErr != nil {
		logger.Warn("unknown log level, using info", "log-level", conf.LogLevel)
	}

	return logger
}
