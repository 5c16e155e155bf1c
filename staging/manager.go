package staging

import (
	"copkg/config"
	"copkg/coordinate"
	"copkg/logging"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNotStaged indicates there is no downloaded file to promote
	ErrNotStaged = errors.New("package is not staged")

	// ErrAlreadyInstalled indicates the install directory already exists
	ErrAlreadyInstalled = errors.New("package is already installed")

	// ErrInsufficientSpace indicates the staging filesystem is too full
	ErrInsufficientSpace = errors.New("insufficient disk space")
)

// Manager moves artifacts between the download dir and the package dir of
// a configuration. It holds no state besides the configuration; callers
// serialize concurrent operations on the same coordinate.
type Manager struct {
	cfg config.Configuration
}

// NewManager creates a new Manager instance
func NewManager(cfg config.Configuration) *Manager {
	return &Manager{cfg: cfg}
}

// Prepare creates the staging directory for a coordinate and returns the
// file an external fetcher should write to. When expectedSize is positive,
// free space in the staging filesystem is checked first.
func (m *Manager) Prepare(coord coordinate.Coordinate, expectedSize int64) (string, error) {
	target := m.cfg.DownloadFilenameForCoordinate(coord)
	stagingDir := filepath.Dir(target)

	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}

	if expectedSize > 0 {
		if err := checkDiskSpace(expectedSize, stagingDir); err != nil {
			return "", err
		}
	}

	logging.LogDebug("📂 Staging %s at %s", coord, target)
	return target, nil
}

// Promote moves a staged artifact into its install directory and returns
// the installed file path. The rename is the commit point: the install
// directory never holds a partial download.
func (m *Manager) Promote(coord coordinate.Coordinate) (string, error) {
	staged := m.cfg.DownloadFilenameForCoordinate(coord)
	installDir := m.cfg.PackageDirectoryForCoordinate(coord)

	info, err := os.Stat(staged)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotStaged, coord)
		}
		return "", fmt.Errorf("failed to stat staged file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotStaged, staged)
	}

	if _, err := os.Stat(installDir); err == nil {
		return "", fmt.Errorf("%w: %s at %s", ErrAlreadyInstalled, coord, installDir)
	}

	if err := os.MkdirAll(filepath.Dir(installDir), 0755); err != nil {
		return "", fmt.Errorf("failed to create package directory: %w", err)
	}

	// Build the install dir next to its final location, then rename it in
	// one step so readers never observe a half-populated directory.
	tmpDir, err := os.MkdirTemp(filepath.Dir(installDir), ".promote-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}
	metadata := PackageMetadata{
		Group:       coord.Group,
		Artifact:    coord.Artifact,
		Version:     coord.Version,
		Filename:    coord.Filename(),
		DownloadURL: m.cfg.DownloadURLForCoordinate(coord),
	}
	if err := SaveMetadata(tmpDir, metadata); err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("failed to write package metadata: %w", err)
	}
	if err := os.Rename(staged, filepath.Join(tmpDir, coord.Filename())); err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("failed to move staged file: %w", err)
	}
	if err := os.Rename(tmpDir, installDir); err != nil {
		// Put the artifact back so a retry can find it
		os.Rename(filepath.Join(tmpDir, coord.Filename()), staged)
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("failed to install package directory: %w", err)
	}

	m.pruneEmptyParents(filepath.Dir(staged))

	installed := filepath.Join(installDir, coord.Filename())
	logging.LogInfo("✅ Installed %s at %s", coord, installed)
	return installed, nil
}

// Discard removes a staged artifact, if any
func (m *Manager) Discard(coord coordinate.Coordinate) error {
	staged := m.cfg.DownloadFilenameForCoordinate(coord)
	if err := os.Remove(staged); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove staged file: %w", err)
	}
	logging.LogDebug("🧹 Discarded staged file %s", staged)
	m.pruneEmptyParents(filepath.Dir(staged))
	return nil
}

// Clean removes the whole download directory
func (m *Manager) Clean() error {
	downloadDir := m.cfg.DownloadDir()
	logging.LogDebug("🧹 Cleaning up download directory: %s", downloadDir)
	if err := os.RemoveAll(downloadDir); err != nil {
		return fmt.Errorf("failed to remove download directory: %w", err)
	}
	return nil
}

// Installed lists the installed versions of group:artifact, oldest first
func (m *Manager) Installed(group, artifact string) ([]coordinate.Coordinate, error) {
	packageRoot := filepath.Join(m.cfg.PackageDir(), coordinate.PackageFragment(group, artifact))

	entries, err := os.ReadDir(packageRoot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read package directory: %w", err)
	}

	var installed []coordinate.Coordinate
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		coord, err := coordinate.New(group, artifact, entry.Name())
		if err != nil {
			logging.LogDebug("⚠️ Ignoring %s: %v", entry.Name(), err)
			continue
		}
		installed = append(installed, coord)
	}

	sort.Slice(installed, func(i, j int) bool {
		return installed[i].Compare(installed[j]) < 0
	})
	return installed, nil
}

// pruneEmptyParents removes empty directories from dir up to, but not
// including, the download directory.
func (m *Manager) pruneEmptyParents(dir string) {
	root := filepath.Clean(m.cfg.DownloadDir())
	for dir = filepath.Clean(dir); dir != root && strings.HasPrefix(dir, root+string(os.PathSeparator)); dir = filepath.Dir(dir) {
		if empty, err := isDirEmpty(dir); err != nil || !empty {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
	}
}

// isDirEmpty reads at most one entry of path
func isDirEmpty(path string) (bool, error) {
	dir, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer dir.Close()

	names, err := dir.Readdirnames(1)
	switch {
	case errors.Is(err, io.EOF):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("failed to list %s: %w", path, err)
	default:
		return len(names) == 0, nil
	}
}
