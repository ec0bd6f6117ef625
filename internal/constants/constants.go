// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Recognition constants
const (
	// DefaultConcurrency is the default number of parallel workers for
	// batch recognition
	DefaultConcurrency = 5
)

// Export constants
const (
	// DefaultBasisExportCount is the default number of basis face images
	// exported by the info command
	DefaultBasisExportCount = 10
)

// File upload constants
const (
	// MaxUploadSize is the maximum file upload size in bytes (32MB)
	MaxUploadSize = 32 << 20
)
