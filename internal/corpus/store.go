package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Store holds the parsed corpus for the whole process and re-reads the data
// file only when its modification time or size changes.
type Store struct {
	path   string
	logger *zerolog.Logger

	mu      sync.RWMutex
	corpus  Corpus
	modTime time.Time
	size    int64
	loaded  bool

	group singleflight.Group
}

func NewStore(path string, logger *zerolog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path is the data file this store reads.
func (s *Store) Path() string {
	return s.path
}

// Get returns the current corpus, loading it when the file changed since the last read.
func (s *Store) Get(ctx context.Context) (Corpus, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.Invalidate()
			return nil, fmt.Errorf("%w: data file not found at %s", ErrCorpusUnavailable, s.path)
		}
		return nil, fmt.Errorf("failed to stat data file %s: %w", s.path, err)
	}

	s.mu.RLock()
	if s.loaded && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		c := s.corpus
		s.mu.RUnlock()
		return c, nil
	}
	s.mu.RUnlock()

	ch := s.group.DoChan(s.path, func() (any, error) {
		start := time.Now()
		c, err := Load(s.path)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.corpus = c
		s.modTime = info.ModTime()
		s.size = info.Size()
		s.loaded = true
		s.mu.Unlock()

		s.logger.Info().
			Str("path", s.path).
			Int("documents", len(c)).
			Dur("duration", time.Since(start)).
			Msg("Corpus loaded")

		return c, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Corpus), nil
	}
}

// Invalidate drops the cached corpus so the next Get reads the file again.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus = nil
	s.loaded = false
	s.modTime = time.Time{}
	s.size = 0
}
