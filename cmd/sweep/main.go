package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/picogrid/param-sweep/cmd/sweep/cmd"
	"github.com/picogrid/param-sweep/pkg/utils"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Shared frontend/backend settings such as BACKEND_PORT
	if shared, err := utils.FindUp(filepath.Join("config", ".env.shared")); err == nil {
		_ = godotenv.Load(shared)
	}

	if err := cmd.Execute(); err != nil {
		_, err := fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if err != nil {
			return
		}
		os.Exit(1)
	}
}
