// Command qrisd runs the merchant service: dynamic QRIS issuance over HTTP.
package main

import (
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alovak/qris-playground/merchant"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	envFile := flag.String("env", ".env", "dotenv file loaded before reading the environment")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		slog.Warn("loading env file", slog.String("file", *envFile), slog.Any("err", err))
	}

	config, err := merchant.LoadConfig(*configPath)
	if err != nil {
		slog.Error("loading config", slog.Any("err", err))
		os.Exit(1)
	}

	logger := slog.New(slog.HandlerOptions{Level: parseLevel(config.LogLevel)}.NewJSONHandler(os.Stdout))

	app := merchant.NewApp(logger, config)
	if err := app.Start(); err != nil {
		logger.Error("starting app", slog.Any("err", err))
		os.Exit(1)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal", slog.String("signal", sig.String()))

	app.Shutdown()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
