// Package workspace resolves and provisions glider deployment directories
// under the data home.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/artpar/gliderprep/internal/core/glider"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrDataHomeNotSet is returned when no data home is configured.
	ErrDataHomeNotSet = errors.New("data home not set")

	// ErrDataHomeInvalid is returned when the data home is not an existing directory.
	ErrDataHomeInvalid = errors.New("data home is not a directory")

	// ErrDeploymentsRootInvalid is returned when {data home}/deployments is not a directory.
	ErrDeploymentsRootInvalid = errors.New("deployments root is not a directory")

	// ErrDeploymentNotFound is returned when a deployment directory does not exist.
	ErrDeploymentNotFound = errors.New("deployment location does not exist")
)

// =============================================================================
// Location
// =============================================================================

// DeploymentsRoot returns {dataHome}/deployments after checking that both
// directories exist.
func DeploymentsRoot(dataHome string) (string, error) {
	if dataHome == "" {
		return "", ErrDataHomeNotSet
	}
	if !isDir(dataHome) {
		return "", fmt.Errorf("%s: %w", dataHome, ErrDataHomeInvalid)
	}
	root := filepath.Join(dataHome, glider.DeploymentsDir)
	if !isDir(root) {
		return "", fmt.Errorf("%s: %w", root, ErrDeploymentsRootInvalid)
	}
	return root, nil
}

// CreateDeploymentsRoot checks dataHome and creates {dataHome}/deployments
// if it does not exist yet.
func CreateDeploymentsRoot(dataHome string) (string, error) {
	if dataHome == "" {
		return "", ErrDataHomeNotSet
	}
	if !isDir(dataHome) {
		return "", fmt.Errorf("%s: %w", dataHome, ErrDataHomeInvalid)
	}
	root := filepath.Join(dataHome, glider.DeploymentsDir)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", root, err)
	}
	return root, nil
}

// Plan parses name and returns its layout under root without touching disk.
func Plan(root, name string) (glider.Layout, error) {
	d, err := glider.ParseDeploymentName(name)
	if err != nil {
		return glider.Layout{}, err
	}
	return glider.NewLayout(root, d), nil
}

// Locate returns the layout of an existing deployment.
func Locate(root, name string) (glider.Layout, error) {
	layout, err := Plan(root, name)
	if err != nil {
		return glider.Layout{}, err
	}
	if !isDir(layout.Root) {
		return glider.Layout{}, fmt.Errorf("%s: %w", layout.Root, ErrDeploymentNotFound)
	}
	return layout, nil
}

// =============================================================================
// Provisioning
// =============================================================================

// Provision creates every directory of the layout. Existing directories are
// left as they are.
func Provision(layout glider.Layout) error {
	for _, dir := range layout.Directories() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
