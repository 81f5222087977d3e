package version

import "fmt"

var (
	// Version is the main version number that is being run at the moment.
	Version = "0.1.0"

	// GitCommit is set by the linker at build time.
	GitCommit = ""
)

// HumanVersion returns the version with the commit it was built from, if
// known.
func HumanVersion() string {
	if GitCommit == "" {
		return fmt.Sprintf("v%s", Version)
	}
	return fmt.Sprintf("v%s (%s)", Version, GitCommit)
}
