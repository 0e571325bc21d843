// Package storage defines the site file-system abstraction.
package storage

// Provider is the interface for site file operations.
type Provider interface {
	// Root returns the absolute directory all paths are resolved against.
	Root() string
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write replaces the file at path (relative to root) in one step.
	Write(path string, content []byte) error
}
