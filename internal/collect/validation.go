// Package collect implements the traffic collection pass.
//
// This file (validation.go) contains repository spec parsing and repository
// list loading. Specs come either from configuration values or from an
// input file, in "owner/repo" or full URL form.
package collect

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ParseRepoSpec normalizes a repository spec into its owner and repo parts.
// Accepted forms:
//   - "owner/repo"
//   - "https://github.com/owner/repo" (any URL; trailing slashes ignored)
//
// The split happens on the first slash, so a repo name containing further
// path segments is preserved as-is.
func ParseRepoSpec(spec string) (owner, repo string, err error) {
	spec = strings.TrimSpace(spec)

	target := spec
	if strings.HasPrefix(spec, "http") {
		u, err := url.Parse(spec)
		if err != nil {
			return "", "", fmt.Errorf("invalid repository URL %q: %w", spec, err)
		}
		target = strings.Trim(u.Path, "/")
	}

	parts := strings.SplitN(target, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository spec %q (expected owner/repo)", spec)
	}

	return parts[0], parts[1], nil
}

// loadRepos merges the configured repository list with the optional input
// file and deduplicates while preserving order.
//
// File format:
//   - One repository spec per line
//   - Empty lines are ignored
//   - Lines starting with # are treated as comments
//   - Leading/trailing whitespace is automatically trimmed
func loadRepos(repos []string, inputFile string) ([]string, error) {
	var all []string
	all = append(all, repos...)

	if inputFile != "" {
		fromFile, err := readRepoFile(inputFile)
		if err != nil {
			return nil, err
		}
		all = append(all, fromFile...)
	}

	seen := make(map[string]struct{}, len(all))
	var unique []string
	for _, spec := range all {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		if _, ok := seen[spec]; ok {
			continue
		}
		seen[spec] = struct{}{}
		unique = append(unique, spec)
	}

	if len(unique) == 0 {
		return nil, fmt.Errorf("no repositories specified: set TARGET_REPOS or use --input")
	}

	return unique, nil
}

// readRepoFile reads repository specs from a file, one per line.
func readRepoFile(path string) ([]string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer file.Close()

	var repos []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		repos = append(repos, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}

	return repos, nil
}
