package storage

import "context"

// Ports for the key-value backends.
type (
	// KV is a durable string key-value store local to one user. Records are
	// always read and written whole.
	KV interface {
		// Get returns the value for key. found is false when the key has never
		// been written; that is not an error.
		Get(ctx context.Context, key string) (value string, found bool, err error)
		Set(ctx context.Context, key, value string) error
		Close() error
	}

	// BatchSetter is implemented by backends that can commit several records
	// in one step.
	BatchSetter interface {
		SetAll(ctx context.Context, entries ...Entry) error
	}

	Entry struct {
		Key   string
		Value string
	}
)
