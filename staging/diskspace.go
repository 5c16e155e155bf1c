package staging

import (
	"copkg/logging"
	"fmt"
)

// checkDiskSpace fails with ErrInsufficientSpace when dir cannot hold size bytes
func checkDiskSpace(size int64, dir string) error {
	available, err := freeSpace(dir)
	if err != nil {
		return err
	}
	logging.LogDebug("💾 %d bytes available in %s, %d required", available, dir, size)
	if uint64(size) > available {
		return fmt.Errorf("%w: %s has %d bytes free, %d required", ErrInsufficientSpace, dir, available, size)
	}
	return nil
}
