// Package config loads the process configuration from the environment.
//
// Configuration is read exactly once at startup and passed to every
// component by value; nothing else in the program touches the environment.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the environment-backed configuration for a collection pass.
type Config struct {
	// Token is the GitHub API token (GH_TOKEN). Required.
	Token string
	// Repos is the list of repository specs from TARGET_REPOS, comma
	// separated, each either "owner/repo" or a full repository URL. May be
	// empty when repositories are supplied through an input file instead.
	Repos []string
	// OutputDir is the directory for all persisted tables (STATS_DIR,
	// default "stats").
	OutputDir string
}

// Load reads the configuration from the environment. A missing GH_TOKEN is
// a fatal configuration error and aborts the run.
func Load() (*Config, error) {
	token := os.Getenv("GH_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GH_TOKEN environment variable is required")
	}

	return &Config{
		Token:     token,
		Repos:     splitRepos(os.Getenv("TARGET_REPOS")),
		OutputDir: getEnv("STATS_DIR", "stats"),
	}, nil
}

// splitRepos splits a comma separated repository list, dropping empty entries.
func splitRepos(value string) []string {
	var repos []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			repos = append(repos, part)
		}
	}
	return repos
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
