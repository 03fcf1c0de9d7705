package index

// Catalog defines the catalog operations used by Sync, Plan and the generators.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type Catalog interface {
	UpsertNote(n NoteRow) error
	DeleteNote(name string) error
	GetChecksum(name string) (string, error)
	AllChecksums() (map[string]string, error)
	Children(name string) ([]string, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
