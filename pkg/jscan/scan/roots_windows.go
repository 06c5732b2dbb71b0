//go:build windows

package scan

import "golang.org/x/sys/windows"

// volumeRoots enumerates present drive letters A-Z as scan roots.
func volumeRoots() []string {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		logger.Warn("drive enumeration failed, falling back to C:", "error", err)
		return []string{`C:\`}
	}

	var roots []string
	for i := 0; i < 26; i++ {
		if mask&(1<<i) != 0 {
			roots = append(roots, string(rune('A'+i))+`:\`)
		}
	}
	return roots
}
