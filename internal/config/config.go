package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var (
	envOnce   sync.Once
	envLoaded string
	envErr    error
)

// LoadEnv loads environment variables from a .env file in the working directory or
// its parent, once per process. It reports the file it loaded, if any. Variables
// already set in the environment are not overridden.
func LoadEnv() (string, error) {
	envOnce.Do(func() {
		for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if envErr = godotenv.Load(candidate); envErr == nil {
				envLoaded = candidate
			}
			return
		}
	})
	return envLoaded, envErr
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
