//go:build !(linux || darwin || freebsd)

package mmap

// mapAnon allocates from the Go heap on platforms without anonymous
// mappings. No release hook is needed; the garbage collector reclaims the
// buffer.
func mapAnon(size int) ([]byte, func(), error) {
	return make([]byte, size), nil, nil
}
