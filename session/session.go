// Package session remembers the code table of every raw packed file written in this
// process, keyed by the file it belongs to. Decoding a raw file looks its own table up
// here and fails if there is none.
package session

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/KitchenMishap/huffpack/huffman"
	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrNoTable = errors.New("session: no code table recorded for file")

const DefaultSize = 64

type Store struct {
	tables *lru.Cache[string, huffman.CodeTable]
}

func New(size int) (*Store, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, huffman.CodeTable](size)
	if err != nil {
		return nil, err
	}
	return &Store{tables: c}, nil
}

func key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (s *Store) Put(path string, table huffman.CodeTable) {
	s.tables.Add(key(path), table)
}

func (s *Store) Get(path string) (huffman.CodeTable, error) {
	table, ok := s.tables.Get(key(path))
	if !ok {
		return huffman.CodeTable{}, fmt.Errorf("%w: %s", ErrNoTable, path)
	}
	return table, nil
}

func (s *Store) Forget(path string) { s.tables.Remove(key(path)) }

func (s *Store) Len() int { return s.tables.Len() }
