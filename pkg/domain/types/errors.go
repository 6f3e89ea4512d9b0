package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify export failures. All of them resolve to exit
// code -1 except TagRuntime, which carries the child's own exit code.
var (
	// TagValidation marks bad input: malformed paths, out-of-range
	// sizes, destinations that already exist.
	TagValidation = goerr.NewTag("validation")

	// TagEnvironment marks a missing external capability or an unknown
	// distribution.
	TagEnvironment = goerr.NewTag("environment")

	// TagLaunch marks a child process that failed to start.
	TagLaunch = goerr.NewTag("launch")

	// TagRuntime marks a child process that started and exited nonzero.
	TagRuntime = goerr.NewTag("runtime")
)
