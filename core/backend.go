package core

// Backend identifies the filesystem implementation behind a Path.
type Backend int

const (
	// BackendUnknown indicates the backend is unknown or unspecified.
	BackendUnknown Backend = iota
	// BackendLocal indicates the filesystem of the calling process.
	BackendLocal
	// BackendContainer indicates a filesystem reached through a remote agent.
	BackendContainer
)

// String returns a string representation of the Backend.
func (b Backend) String() string {
	switch b {
	case BackendLocal:
		return "local"
	case BackendContainer:
		return "container"
	default:
		return "unknown"
	}
}
