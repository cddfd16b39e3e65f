package main

import (
	"flag"
	"jobify-api/app"
	"log/slog"
	"os"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	envFile := flag.String("env", ".env", "path to a dotenv file")
	flag.Parse()

	if err := app.Run(*configPath, *envFile); err != nil {
		slog.Error("jobify-api failed", slog.Any("error", err))
		os.Exit(1)
	}
}
