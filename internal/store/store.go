package store

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Store bundles the two independent persistence engines: the structured
// record store and the media blob store. It is constructed once at process
// start and passed to callers; there is no package-level singleton.
type Store struct {
	Records *Records
	Media   *Media
}

// Open creates the data directory if needed and opens both stores.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}

	records, err := OpenRecords(filepath.Join(dir, "records.db"))
	if err != nil {
		return nil, err
	}

	media, err := OpenMedia(filepath.Join(dir, "media.db"))
	if err != nil {
		_ = records.Close()
		return nil, err
	}

	return &Store{Records: records, Media: media}, nil
}

func (s *Store) Close() error {
	err := s.Records.Close()
	if merr := s.Media.Close(); err == nil {
		err = merr
	}
	return err
}
