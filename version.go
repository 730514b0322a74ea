package orbus

// version is external metadata, not consulted by any core operation;
// matches spec.md 6's "A string constant orb_version() is exposed but
// is external metadata."
const version = "0.1.0"

// Version returns the package's version string.
func Version() string {
	return version
}
