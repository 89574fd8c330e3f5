package version

// VERSION is the current version of the application. Overridden at build
// time via -ldflags.
var VERSION = "0.3.0-dev"

// AppVersion returns the application identifier used in generated
// documents and logs.
func AppVersion() string {
	return "datasetjson-shells " + VERSION
}
