package cmd

import (
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// isGitURL reports whether the argument names a remote git repository
// rather than a local path.
func isGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") || strings.HasPrefix(input, "git@")
}

// cloneRepo shallow-clones the default branch of url into a fresh temporary
// directory and returns its path. The caller removes the directory once the
// run is done.
func cloneRepo(url string) (string, error) {
	tempDir, err := os.MkdirTemp("", "srcpack-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}
	logger.Info("Cloning repository",
		zap.String("url", url),
		zap.String("dir", tempDir))

	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           url,
		Depth:         1,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone %s: %w", url, err)
	}
	return tempDir, nil
}
