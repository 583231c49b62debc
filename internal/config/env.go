package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/jekyll-studio/internal/logfields"
)

// envFiles are read in precedence order; godotenv never overrides a variable
// that is already set, so earlier files win.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads .env.local and .env from dir when present. Existing
// process environment variables are not overwritten.
func loadEnvFiles(dir string) {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Ignoring unreadable env file", logfields.File(path), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.File(path))
	}
}
