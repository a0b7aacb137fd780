package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file. If path is
// empty, ".env" in the current directory is tried. A missing file is
// not an error; already-set variables are never overridden.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Load reads the optional .env file and then the environment, returning
// the resulting AppConfig.
func Load(envPath string) (AppConfig, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return AppConfig{}, err
	}
	envCfg, err := LoadFromEnv()
	if err != nil {
		return AppConfig{}, err
	}
	return envCfg.ToAppConfig(), nil
}
