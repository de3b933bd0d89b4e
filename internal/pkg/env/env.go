package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var Env map[string]string

func GetEnv(key, def string) string {
	// First check our loaded Env map
	if val, ok := Env[key]; ok {
		return val
	}
	// Fallback to OS environment variables (for Docker/tests)
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt64 reads an integer setting, falling back to def when the value
// is missing or not a number.
func GetEnvInt64(key string, def int64) int64 {
	raw := GetEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func SetupEnvFile() {
	// Look for .env file in project root
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/lanternfox to project root
		"../../../.env", // Fallback for deeper nesting
	}

	var err error
	for _, envFile := range envFiles {
		Env, err = godotenv.Read(envFile)
		if err == nil {
			return
		}
	}

	// No .env file found: rely on OS environment only (container deployments).
	Env = map[string]string{}
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
