package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/facture-dev/facture/internal/commands"
	"github.com/facture-dev/facture/internal/logger"
)

func main() {
	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	if err := logger.Setup(logger.FromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
