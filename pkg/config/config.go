package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Token environment variables, checked in order; first match wins.
var tokenEnvVars = []string{"GITHUB_TOKEN", "TOKEN"}

// loginEnvVar supplies the target login when no flag is given.
const loginEnvVar = "GITHUB_REPOSITORY_OWNER"

var (
	ErrMissingToken = errors.New("missing GitHub token")
	ErrMissingLogin = errors.New("missing GitHub login")
)

type Config struct {
	GitHub GitHubConfig
	Log    LogConfig
}

type GitHubConfig struct {
	Token string
	Login string
}

type LogConfig struct {
	Level string
}

// Load loads configuration from .env file and environment variables. The
// login argument takes precedence over the environment fallback.
func Load(login string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	token := firstEnv(tokenEnvVars...)
	if token == "" {
		return nil, fmt.Errorf("%w: set one of GITHUB_TOKEN or TOKEN", ErrMissingToken)
	}

	if login == "" {
		login = os.Getenv(loginEnvVar)
	}
	if login == "" {
		return nil, fmt.Errorf("%w: pass --login or set GITHUB_REPOSITORY_OWNER", ErrMissingLogin)
	}

	return &Config{
		GitHub: GitHubConfig{
			Token: token,
			Login: login,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// firstEnv returns the value of the first environment variable that is set
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
