//go:build linux || darwin || freebsd

package mmap

import (
	"golang.org/x/sys/unix"
)

// mapAnon maps size bytes of zeroed anonymous memory. The returned free
// unmaps the region and must be called exactly once; the data block's
// release hook guarantees that.
func mapAnon(size int) ([]byte, func(), error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	free := func() {
		_ = unix.Munmap(data)
	}
	return data, free, nil
}
