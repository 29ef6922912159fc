package version

// Version represents the current version of letterpress
const Version = "1.0.0"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "letterpress version " + Version
}

// UserAgent is sent with every archive request.
func UserAgent() string {
	return "letterpress/" + Version
}
