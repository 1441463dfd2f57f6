package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// AppName names the config directory and the default data directory.
const AppName = "wordrank"

// PathResolver finds the dictionary given on the command line or in the
// config, trying a few well-known places when the path is relative.
type PathResolver struct {
	executableDir string
	configDir     string
}

// NewPathResolver builds a resolver rooted at the running executable and
// the given config directory. Either may be empty.
func NewPathResolver(configDir string) *PathResolver {
	execDir, err := GetExecutableDir()
	if err != nil {
		log.Debugf("Could not determine executable directory: %v", err)
	}
	return &PathResolver{executableDir: execDir, configDir: configDir}
}

// Candidates lists the locations ResolveDict tries, in order.
func (pr *PathResolver) Candidates(path string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, path))
	}
	if pr.executableDir != "" {
		candidates = append(candidates,
			filepath.Join(pr.executableDir, path),
			filepath.Join(filepath.Dir(pr.executableDir), path),
		)
	}
	if pr.configDir != "" {
		candidates = append(candidates, filepath.Join(pr.configDir, path))
	}
	return candidates
}

// ResolveDict returns the first candidate that is a regular file or a
// directory holding at least one dict_*.bin chunk.
func (pr *PathResolver) ResolveDict(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no dictionary path given")
	}
	for _, candidate := range pr.Candidates(path) {
		if isDictPath(candidate) {
			log.Debugf("Found dictionary at %s", candidate)
			return candidate, nil
		}
		log.Debugf("Dictionary candidate not valid: %s", candidate)
	}
	return "", fmt.Errorf("dictionary %q not found: %w", path, os.ErrNotExist)
}

func isDictPath(path string) bool {
	if !IsDir(path) {
		return FileExists(path)
	}
	matches, err := filepath.Glob(filepath.Join(path, "dict_*.bin"))
	return err == nil && len(matches) > 0
}
