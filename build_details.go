package smithygen

import "fmt"

var (
	// version is set via ldflags during release builds.
	// Builds from source report "dev".
	version = "dev"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}

// UserAgent returns the product token sent in the mock server's Server header.
func UserAgent() string {
	return fmt.Sprintf("smithygen/%s", version)
}
