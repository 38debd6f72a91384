package confkit

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotenvOnce overlays .env files onto the environment exactly once per
// process. Config loading and the integration tests both call it, so DSNs
// and feed keys can live in an untracked .env at the module root.
//
// ENV_FILE names one explicit file and skips discovery; otherwise every .env
// between this package and the module root loads, nearest first. Existing
// variables win unless DOTENV_OVERLOAD=1; NO_DOTENV=1 disables the whole
// mechanism.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}

	load := godotenv.Load
	if os.Getenv("DOTENV_OVERLOAD") == "1" {
		load = godotenv.Overload
	}

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		_ = load(envFile)
		return
	}

	dir, ok := sourceDir()
	if !ok {
		_ = load(".env")
		return
	}
	ascend(dir, func(d string) bool {
		_ = load(filepath.Join(d, ".env"))
		return false
	})
}
