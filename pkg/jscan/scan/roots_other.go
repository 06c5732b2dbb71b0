//go:build !windows

package scan

// volumeRoots returns the single filesystem root; mounted volumes all hang
// off it.
func volumeRoots() []string {
	return []string{"/"}
}
