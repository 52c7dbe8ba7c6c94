// Package storage defines the flat note directory abstraction.
package storage

// ReservedPrefix marks entries owned by zk itself (index, config, catalog and
// their temporary files). List never returns them.
const ReservedPrefix = "_zettel"

// Provider is the interface for vault file operations. Names are plain file
// names relative to the vault root; nested paths are rejected.
type Provider interface {
	// Root returns the absolute vault directory.
	Root() string
	// List returns the names of every regular, non-reserved entry in
	// lexicographic order.
	List() ([]string, error)
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
	// Exists reports whether the named entry is present.
	Exists(name string) (bool, error)
	// Create writes content to a new file and fails with os.ErrExist if the
	// name is taken.
	Create(name string, content []byte) error
	// Write atomically replaces the named file with content.
	Write(name string, content []byte) error
	// Remove deletes the named file.
	Remove(name string) error
}
