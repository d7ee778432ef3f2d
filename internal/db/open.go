package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jborjas31/my-scheduler/internal/task"
)

// Backend names accepted by Open.
const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Settings select and locate a task store.
type Settings struct {
	Backend   string
	DBPath    string
	Firestore FirestoreConfig
}

// Open returns the repository for the configured backend.
func Open(ctx context.Context, s Settings, opts ...Option) (task.Repository, error) {
	switch s.Backend {
	case BackendSQLite, "":
		if dir := filepath.Dir(s.DBPath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		return New(s.DBPath, opts...)
	case BackendFirestore:
		return NewFirestore(ctx, s.Firestore, opts...)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", s.Backend)
	}
}
