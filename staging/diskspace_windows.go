//go:build windows

package staging

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// freeSpace returns the bytes available to the caller in dir
func freeSpace(dir string) (uint64, error) {
	path, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return 0, fmt.Errorf("invalid path %s: %w", dir, err)
	}
	var available, total, free uint64
	if err := windows.GetDiskFreeSpaceEx(path, &available, &total, &free); err != nil {
		return 0, fmt.Errorf("failed to query free space of %s: %w", dir, err)
	}
	return available, nil
}
