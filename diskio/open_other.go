//go:build !linux && !darwin

package diskio

import "golang.org/x/sys/unix"

// openFile opens path with a plain buffered handle on platforms without a
// portable unbuffered-read flag.
func openFile(path string) (fd int, direct bool, err error) {
	fd, err = unix.Open(path, unix.O_RDONLY, 0)
	return fd, false, err
}

func fileSectorSize(int) uint32 {
	return defaultSectorSize
}
