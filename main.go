package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	ingestcmd "github.com/juandaherrera/finmail/cmd/ingest"
	"github.com/juandaherrera/finmail/cmd/root"
	"github.com/juandaherrera/finmail/cmd/rules"
	"github.com/juandaherrera/finmail/cmd/serve"
)

func init() {
	loadEnvSilently()

	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(ingestcmd.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

// loadEnvSilently loads .env before any logging is configured. A missing
// file is not an error.
func loadEnvSilently() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
		return
	}
	if dir, err := os.Getwd(); err == nil {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			_ = godotenv.Load(candidate)
		}
	}
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
