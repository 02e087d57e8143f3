// Package version exposes the application build version.
package version

import "github.com/CinkadeusBG/LCARSTV/constant"

// Current returns the semantic version string of this build.
func Current() string {
	return constant.Version
}
