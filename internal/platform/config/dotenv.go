package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileVar names the variable that overrides the dotenv path.
const EnvFileVar = "VOIDLIGHT_ENV_FILE"

const defaultEnvFile = ".env"

// EnvFilePath returns the dotenv path selected by VOIDLIGHT_ENV_FILE.
func EnvFilePath() string {
	if path := strings.TrimSpace(os.Getenv(EnvFileVar)); path != "" {
		return path
	}
	return defaultEnvFile
}

// LoadDotEnv loads path into the process environment. Variables already set
// win over the file. A missing file is not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = EnvFilePath()
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
