//go:build unix

package fs

import (
	"errors"

	"golang.org/x/sys/unix"
)

func syncDir(path string) error {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return err
	}
	defer func() { _ = unix.Close(fd) }()

	if err := unix.Fsync(fd); err != nil {
		// Some file systems (e.g. certain FUSE mounts) refuse fsync on directories.
		if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOTSUP) {
			return nil
		}
		return err
	}
	return nil
}
