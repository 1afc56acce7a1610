//go:build darwin

package diskio

import "golang.org/x/sys/unix"

// openFile opens path for unbuffered reads. Darwin has no O_DIRECT; the
// F_NOCACHE fcntl disables page-cache use on the descriptor instead.
func openFile(path string) (fd int, direct bool, err error) {
	fd, err = unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return -1, false, err
	}

	if _, err := unix.FcntlInt(uintptr(fd), unix.F_NOCACHE, 1); err != nil {
		return fd, false, nil
	}
	return fd, true, nil
}

// fileSectorSize reports the alignment unit for reads against fd.
// Implausible filesystem block sizes fall back to 512.
func fileSectorSize(fd int) uint32 {
	var st unix.Statfs_t
	if err := unix.Fstatfs(fd, &st); err != nil {
		return defaultSectorSize
	}
	if st.Bsize < defaultSectorSize || st.Bsize > 4096 {
		return defaultSectorSize
	}
	return uint32(st.Bsize)
}
