package staging

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MetadataFileName is written into every install directory
const MetadataFileName = ".copkg-metadata.json"

// PackageMetadata records which coordinate an install directory holds and
// where its artifact came from
type PackageMetadata struct {
	Group       string `json:"group"`
	Artifact    string `json:"artifact"`
	Version     string `json:"version"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// SaveMetadata writes metadata into dir. The file is written under a
// temporary name and renamed, so readers see either no metadata or all of it.
func SaveMetadata(dir string, metadata PackageMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	tmp, err := os.CreateTemp(dir, MetadataFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(append(data, '\n'))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0644)
	}
	if err == nil {
		err = os.Rename(tmpName, filepath.Join(dir, MetadataFileName))
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// LoadMetadata reads the metadata of an install directory. A directory
// without metadata yields (nil, nil).
func LoadMetadata(dir string) (*PackageMetadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	metadata := &PackageMetadata{}
	if err := json.Unmarshal(data, metadata); err != nil {
		return nil, fmt.Errorf("invalid metadata in %s: %w", dir, err)
	}
	return metadata, nil
}
