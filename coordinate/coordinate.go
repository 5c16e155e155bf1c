package coordinate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ArchiveExtension is appended to every artifact file name
const ArchiveExtension = ".tar.gz"

// ErrInvalidCoordinate is returned for malformed coordinates
var ErrInvalidCoordinate = errors.New("invalid package coordinate")

// Coordinate identifies one version of a package: group:artifact:version
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
}

// New creates a validated Coordinate
func New(group, artifact, version string) (Coordinate, error) {
	c := Coordinate{Group: group, Artifact: artifact, Version: version}
	if err := c.validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Parse parses "group:artifact:version", e.g. "com.acme:widget:1.2.0"
func Parse(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("%w: %q must be group:artifact:version", ErrInvalidCoordinate, s)
	}
	return New(parts[0], parts[1], parts[2])
}

// ParsePackage parses "group:artifact", the version-less form used for listing
func ParsePackage(s string) (group, artifact string, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q must be group:artifact", ErrInvalidCoordinate, s)
	}
	if err := validateGroup(parts[0]); err != nil {
		return "", "", err
	}
	if err := validateSegment("artifact", parts[1]); err != nil {
		return "", "", err
	}
	return parts[0], parts[1], nil
}

// PathFragment returns the group segments, artifact and version joined
// with the host separator: com.acme:widget:1.2.0 -> com/acme/widget/1.2.0
func (c Coordinate) PathFragment() string {
	return filepath.Join(PackageFragment(c.Group, c.Artifact), c.Version)
}

// Filename returns the artifact file name: widget-1.2.0.tar.gz
func (c Coordinate) Filename() string {
	return c.Artifact + "-" + c.Version + ArchiveExtension
}

func (c Coordinate) String() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// Semver parses the version as a semantic version
func (c Coordinate) Semver() (*semver.Version, error) {
	return semver.NewVersion(c.Version)
}

// Compare orders versions of the same package. Semantic versions are
// compared numerically; anything else falls back to string order.
func (c Coordinate) Compare(other Coordinate) int {
	v1, err1 := c.Semver()
	v2, err2 := other.Semver()
	if err1 == nil && err2 == nil {
		return v1.Compare(v2)
	}
	return strings.Compare(c.Version, other.Version)
}

// PackageFragment is the directory holding every version of a package
func PackageFragment(group, artifact string) string {
	segments := append(strings.Split(group, "."), artifact)
	return filepath.Join(segments...)
}

func (c Coordinate) validate() error {
	if err := validateGroup(c.Group); err != nil {
		return err
	}
	if err := validateSegment("artifact", c.Artifact); err != nil {
		return err
	}
	return validateSegment("version", c.Version)
}

func validateGroup(group string) error {
	if group == "" {
		return fmt.Errorf("%w: empty group", ErrInvalidCoordinate)
	}
	for _, segment := range strings.Split(group, ".") {
		if err := validateSegment("group", segment); err != nil {
			return err
		}
	}
	return nil
}

// validateSegment rejects anything that would escape or collapse in a path
func validateSegment(name, s string) error {
	switch {
	case s == "":
		return fmt.Errorf("%w: empty %s", ErrInvalidCoordinate, name)
	case s == "." || s == "..":
		return fmt.Errorf("%w: %s %q", ErrInvalidCoordinate, name, s)
	case strings.ContainsAny(s, `/\:`) || strings.TrimSpace(s) != s:
		return fmt.Errorf("%w: %s %q contains a separator or whitespace", ErrInvalidCoordinate, name, s)
	}
	return nil
}
