package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/medichain/triage/internal/cli"
)

func main() {
	// Local .env files are optional; env vars feed viper's TRIAGE_ prefix.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
