// Package dirs resolves the directories relaunch works in.
// The project directory is home-relative by default and can be
// overridden from the environment.
package dirs

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// DefaultProjectSubdir is the project location relative to the home directory.
const DefaultProjectSubdir = "myProjects/python/slideshow"

// currentUser is replaced in tests.
var currentUser = user.Current

// ProjectDir returns the directory the target program runs from.
// Priority: $RELAUNCH_PROJECT_DIR > $HOME/myProjects/python/slideshow > <passwd home>/...
// It returns "" when no home directory can be found.
func ProjectDir() string {
	if v := os.Getenv("RELAUNCH_PROJECT_DIR"); v != "" {
		return ExpandHome(v)
	}
	home := HomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, filepath.FromSlash(DefaultProjectSubdir))
}

// HomeDir returns the invoking user's home directory.
// $HOME wins; the passwd entry is consulted only when it is unset,
// which happens under some init systems and cron. It returns "" if neither
// knows the home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if u, err := currentUser(); err == nil && u.HomeDir != "" {
		return u.HomeDir
	}
	return ""
}

// ExpandHome replaces a leading "~" or "~/" with the home directory.
// Other paths, and every path when the home directory is unknown, are
// returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home := HomeDir()
	if home == "" {
		return path
	}
	return filepath.Join(home, path[1:])
}
