// Package fileutil holds file permission modes shared by writers.
package fileutil

import "os"

// ReadableByAll is the mode for generated source files, read by build tools
// and other users.
const ReadableByAll os.FileMode = 0o644

// DirReadableByAll is the mode for directories holding generated packages.
const DirReadableByAll os.FileMode = 0o755
