//go:build !linux

package quantum

func totalMemory() uint64 { return 0 }
