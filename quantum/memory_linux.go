//go:build linux

package quantum

import "golang.org/x/sys/unix"

// totalMemory returns the physical memory of the machine in bytes, or 0 if unknown.
func totalMemory() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Totalram) * uint64(info.Unit)
}
