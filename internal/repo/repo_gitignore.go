// repo_gitignore.go manages .gitignore entries for shared databases.
//
// The template ignores every *.db file. Sharing a database appends a
// negation line ("!stopwatch-ci.db") under a marker header; unsharing
// removes it. Other content and formatting are preserved.

package repo

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const sharedDBHeader = "# Shared databases (committed)"

// parseGitignore reads a gitignore file and returns its lines (trimmed).
func parseGitignore(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines, nil
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return DiscoverDir()
}

// ShareDB un-ignores a database so that it is committed.
// If dir is empty, discovers .stopwatch directory from current working directory.
func ShareDB(name, dir string) error {
	dir, err := resolveDir(dir)
	if err != nil {
		return err
	}

	entry := "!" + DBFileName(name)
	gitignore := filepath.Join(dir, ".gitignore")

	content, err := os.ReadFile(gitignore)
	if err != nil {
		return err
	}
	lines, _ := parseGitignore(gitignore)
	if slices.Contains(lines, entry) {
		return nil
	}

	s := string(content)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	if !slices.Contains(lines, sharedDBHeader) {
		s += "\n" + sharedDBHeader + "\n"
	}
	s += entry + "\n"
	return os.WriteFile(gitignore, []byte(s), 0644)
}

// UnshareDB makes a database local again.
// If dir is empty, discovers .stopwatch directory from current working directory.
func UnshareDB(name, dir string) error {
	dir, err := resolveDir(dir)
	if err != nil {
		return err
	}

	entry := "!" + DBFileName(name)
	gitignore := filepath.Join(dir, ".gitignore")

	content, err := os.ReadFile(gitignore)
	if err != nil {
		return err
	}

	var out []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) != entry {
			out = append(out, line)
		}
	}

	// Drop the header once no shared databases follow it.
	result := strings.Join(out, "\n")
	if idx := strings.Index(result, sharedDBHeader); idx != -1 {
		rest := strings.TrimSpace(result[idx+len(sharedDBHeader):])
		if !strings.Contains(rest, "!") {
			result = strings.TrimRight(result[:idx], "\n") + "\n"
		}
	}
	return os.WriteFile(gitignore, []byte(result), 0644)
}

// IsShared reports whether a database is committed to git.
// If dir is empty, discovers .stopwatch directory from current working directory.
func IsShared(name, dir string) (bool, error) {
	dir, err := resolveDir(dir)
	if err != nil {
		return false, err
	}
	lines, err := parseGitignore(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return false, err
	}
	return slices.Contains(lines, "!"+DBFileName(name)), nil
}
