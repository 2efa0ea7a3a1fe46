package util

import "os"

// FileExists reports whether fpath can be stat'ed.
func FileExists(fpath string) bool {
	_, err := os.Stat(fpath)
	return err == nil
}
