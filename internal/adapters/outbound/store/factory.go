package store

import (
	"context"
	"fmt"

	"github.com/abdidvp/storediag/internal/domain"
)

// Backend names accepted by New.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
	BackendS3       = "s3"
	BackendGCS      = "gcs"
)

// Store is a ResultStore that holds resources.
type Store interface {
	domain.ResultStore
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string
	DataDir  string
	DSN      string
	Table    string
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
}

// New builds the configured backend. The empty backend is "file".
func New(ctx context.Context, o Options) (Store, error) {
	switch o.Backend {
	case "", BackendFile:
		return NewFileStore(o.DataDir), nil
	case BackendSQLite, BackendPostgres, BackendMySQL:
		if o.DSN == "" {
			return nil, fmt.Errorf("%s store requires a dsn", o.Backend)
		}
		return OpenSQL(ctx, Dialect(o.Backend), o.DSN, o.Table)
	case BackendS3:
		return NewS3Store(ctx, S3Config{Bucket: o.Bucket, Region: o.Region, Endpoint: o.Endpoint, Prefix: o.Prefix})
	case BackendGCS:
		return newGCSStore(ctx, o.Bucket, o.Prefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", o.Backend)
	}
}
