// Package jsonfile is a durable store.Store backed by two JSON files: the
// record sequence and the seen-hash list.
//
// Writes go to temp files first and are published by atomic rename, records
// before hashes. A crash between the two renames leaves the hash file
// lagging, which is safe: Load rebuilds the seen set from the union of the
// hash file and the hashes embedded in records, so nothing is re-emitted.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/finsignal/bankfeed/pkg/bankfeed/internalerr"
	"github.com/finsignal/bankfeed/pkg/bankfeed/store"
)

// Store persists records and hashes as two JSON files.
type Store struct {
	mu       sync.Mutex
	dataPath string
	hashPath string
	log      *logrus.Logger
}

// New creates a store over the given file paths. The files need not exist
// yet; the first persist creates them.
func New(dataPath, hashPath string, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{dataPath: dataPath, hashPath: hashPath, log: log}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Load reads the previous state. A missing or unparsable file yields an
// empty collection with a warning; it never fails the run.
func (s *Store) Load(ctx context.Context) (store.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, hashes := s.read()
	return store.State{Records: records, Seen: store.SeenFrom(hashes, records)}, nil
}

// AppendAndPersist rewrites both files with the batch appended. Temp files
// are fully written before either rename, so a failure mid-write cannot
// truncate existing state.
func (s *Store) AppendAndPersist(ctx context.Context, records []store.Record, hashes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, existingHashes := s.read()
	allRecords := append(existing, records...)

	seen := store.SeenFrom(existingHashes, nil)
	allHashes := existingHashes
	for _, h := range hashes {
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		allHashes = append(allHashes, h)
	}

	dataTmp, err := writeTemp(s.dataPath, allRecords)
	if err != nil {
		return fmt.Errorf("%w: write records: %v", internalerr.ErrPersistence, err)
	}
	hashTmp, err := writeTemp(s.hashPath, allHashes)
	if err != nil {
		os.Remove(dataTmp)
		return fmt.Errorf("%w: write hashes: %v", internalerr.ErrPersistence, err)
	}

	if err := os.Rename(dataTmp, s.dataPath); err != nil {
		os.Remove(dataTmp)
		os.Remove(hashTmp)
		return fmt.Errorf("%w: publish records: %v", internalerr.ErrPersistence, err)
	}
	if err := os.Rename(hashTmp, s.hashPath); err != nil {
		os.Remove(hashTmp)
		return fmt.Errorf("%w: publish hashes: %v", internalerr.ErrPersistence, err)
	}
	return nil
}

// Clear deletes both files together.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range []string{s.dataPath, s.hashPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: clear %s: %v", internalerr.ErrPersistence, path, err)
		}
	}
	return nil
}

// Status reports stored volume.
func (s *Store) Status(ctx context.Context) (store.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, hashes := s.read()
	return store.Status{
		Records: len(records),
		Hashes:  len(store.SeenFrom(hashes, records)),
	}, nil
}

// read loads both files best-effort, logging (not failing) on corrupt state.
func (s *Store) read() ([]store.Record, []string) {
	var records []store.Record
	if data, err := os.ReadFile(s.dataPath); err == nil {
		if err := json.Unmarshal(data, &records); err != nil {
			s.log.WithError(err).WithField("path", s.dataPath).
				Warn("record file unparsable, starting from empty state")
			records = nil
		}
	} else if !os.IsNotExist(err) {
		s.log.WithError(err).WithField("path", s.dataPath).
			Warn("record file unreadable, starting from empty state")
	}

	var hashes []string
	if data, err := os.ReadFile(s.hashPath); err == nil {
		if err := json.Unmarshal(data, &hashes); err != nil {
			s.log.WithError(err).WithField("path", s.hashPath).
				Warn("hash file unparsable, rebuilding from records")
			hashes = nil
		}
	} else if !os.IsNotExist(err) {
		s.log.WithError(err).WithField("path", s.hashPath).
			Warn("hash file unreadable, rebuilding from records")
	}

	return records, hashes
}

func writeTemp(path string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	return tmp, nil
}
