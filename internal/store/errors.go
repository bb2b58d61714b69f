package store

import (
	"errors"
	"fmt"

	"github.com/labstack/gommon/bytes"
)

var (
	// ErrQuotaExceeded is returned before any write when the projected record
	// store size would pass the configured ceiling.
	ErrQuotaExceeded = errors.New("record store quota exceeded")

	// ErrStorageUnavailable is returned by media writes when the blob store
	// is not open.
	ErrStorageUnavailable = errors.New("media store unavailable")
)

func quotaError(current, incoming, limit int64) error {
	return fmt.Errorf("%w: %s stored, %s incoming, %s limit",
		ErrQuotaExceeded,
		bytes.Format(current),
		bytes.Format(incoming),
		bytes.Format(limit))
}
