package config

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DownloadDirName is the staging directory, relative to the package dir
const DownloadDirName = ".download"

// Coordinate is what the configuration needs from a package coordinate
type Coordinate interface {
	// PathFragment is the relative directory derived from the coordinate identity
	PathFragment() string
	// Filename is the canonical artifact file name
	Filename() string
}

// Configuration holds the package manager layout and repository access
// parameters. It is an immutable, comparable value: == and map keys use
// exactly the four persisted fields. The download dir is derived from
// packageDir on every call and never stored.
type Configuration struct {
	packageDir     string
	packageBaseURL string
	username       Optional
	password       Optional
}

// New creates a Configuration. No validation is done and the filesystem
// is not touched; see Validate.
func New(packageDir, packageBaseURL string, username, password Optional) Configuration {
	return Configuration{
		packageDir:     packageDir,
		packageBaseURL: packageBaseURL,
		username:       username,
		password:       password,
	}
}

// PackageBaseURL returns the base URL of the server packages are distributed from
func (c Configuration) PackageBaseURL() string {
	return c.packageBaseURL
}

// PackageDir returns the directory packages are installed into
func (c Configuration) PackageDir() string {
	return c.packageDir
}

// Username returns the username for the package base URL, if any
func (c Configuration) Username() Optional {
	return c.username
}

// Password returns the password for the package base URL, if any
func (c Configuration) Password() Optional {
	return c.password
}

// DownloadDir returns the directory used while downloading packages
func (c Configuration) DownloadDir() string {
	return joinPath(c.packageDir, DownloadDirName)
}

// DownloadFilenameForCoordinate returns the staging file for the coordinate
func (c Configuration) DownloadFilenameForCoordinate(coord Coordinate) string {
	return joinPath(c.DownloadDir(), coord.PathFragment(), coord.Filename())
}

// PackageDirectoryForCoordinate returns the install directory for the coordinate
func (c Configuration) PackageDirectoryForCoordinate(coord Coordinate) string {
	return joinPath(c.packageDir, coord.PathFragment())
}

// DownloadURLForCoordinate returns the remote location of the coordinate's artifact
func (c Configuration) DownloadURLForCoordinate(coord Coordinate) string {
	base := strings.TrimSuffix(c.packageBaseURL, "/")
	return base + "/" + filepath.ToSlash(coord.PathFragment()) + "/" + coord.Filename()
}

// Equal reports whether both configurations have the same persisted fields
func (c Configuration) Equal(other Configuration) bool {
	return c == other
}

// Hash returns a hash of the persisted fields, consistent with Equal
func (c Configuration) Hash() uint64 {
	h := fnv.New64a()
	writeField(h, c.packageDir, true)
	writeField(h, c.packageBaseURL, true)
	writeField(h, c.username.value, c.username.set)
	writeField(h, c.password.value, c.password.set)
	return h.Sum64()
}

// Validate checks the fields New accepts blindly
func (c Configuration) Validate() error {
	if strings.TrimSpace(c.packageDir) == "" {
		return &Error{Op: "validate", Err: fmt.Errorf("%w: packageDir is empty", ErrInvalid)}
	}
	u, err := url.Parse(c.packageBaseURL)
	if err != nil {
		return &Error{Op: "validate", Err: fmt.Errorf("%w: packageBaseUrl: %w", ErrInvalid, err)}
	}
	if !u.IsAbs() || u.Host == "" {
		return &Error{Op: "validate", Err: fmt.Errorf("%w: packageBaseUrl %q is not an absolute URL", ErrInvalid, c.packageBaseURL)}
	}
	return nil
}

func (c Configuration) String() string {
	return fmt.Sprintf("Configuration{packageDir=%s, packageBaseUrl=%s, username=%s}", c.packageDir, c.packageBaseURL, c.username)
}

// writeField length-prefixes each field so ("ab","c") and ("a","bc") differ
func writeField(h hash.Hash, s string, set bool) {
	var buf [9]byte
	if set {
		buf[0] = 1
	}
	binary.BigEndian.PutUint64(buf[1:], uint64(len(s)))
	h.Write(buf[:])
	h.Write([]byte(s))
}

// joinPath concatenates with the host separator, adding one only when the
// left side does not already end with a separator. Unlike filepath.Join it
// does not clean the result.
func joinPath(base string, parts ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, p := range parts {
		s := b.String()
		if len(s) == 0 || !os.IsPathSeparator(s[len(s)-1]) {
			b.WriteByte(os.PathSeparator)
		}
		b.WriteString(p)
	}
	return b.String()
}
