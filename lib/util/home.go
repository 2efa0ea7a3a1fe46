package util

import (
	"os"

	"github.com/ppaass/ppaass/lib/util/logger"
)

var log = logger.GetPpaassLogger()

// UserHome returns the current user's home directory, falling back to $HOME
// and finally the working directory.
func UserHome() string {
	homeDir, err := os.UserHomeDir()
	if err == nil {
		return homeDir
	}
	if home := os.Getenv("HOME"); home != "" {
		log.WithError(err).Warn("os.UserHomeDir failed, falling back to $HOME")
		return home
	}
	if wd, wdErr := os.Getwd(); wdErr == nil {
		log.WithError(err).Warn("os.UserHomeDir and $HOME unavailable; falling back to working directory")
		return wd
	}
	return "."
}
