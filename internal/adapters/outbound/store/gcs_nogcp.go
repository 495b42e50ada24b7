//go:build !gcp

package store

import (
	"context"
	"errors"
)

func newGCSStore(context.Context, string, string) (Store, error) {
	return nil, errors.New("gcs storage is not enabled in this build (use -tags gcp)")
}
