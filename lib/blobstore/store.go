// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package blobstore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/zeebo/blake3"
)

// ErrNotFound is returned by Get for an id with no object.
var ErrNotFound = errors.New("artifact not found")

// Info describes a stored object.
type Info struct {
	// Size is the uncompressed length.
	Size int
	// StoredSize is the length at rest.
	StoredSize int
	Encoding   Encoding
	// Digest is the hex blake3-256 of the uncompressed bytes.
	Digest string
}

type object struct {
	info Info
	data []byte
}

// Store holds objects in memory keyed by artifact id. A Put replaces
// any previous object with the same id. Safe for concurrent use.
type Store struct {
	encoding Encoding

	mu      sync.RWMutex
	objects map[string]object
}

// NewStore creates a Store that compresses new objects with encoding.
func NewStore(encoding Encoding) *Store {
	return &Store{
		encoding: encoding,
		objects:  make(map[string]object),
	}
}

// Put stores a copy of data under id. Compression and hashing happen
// before the lock is taken.
func (s *Store) Put(id string, data []byte) (Info, error) {
	if id == "" {
		return Info{}, errors.New("artifact id is empty")
	}
	digest := blake3.Sum256(data)

	stored, encoding, err := encode(data, s.encoding)
	if err != nil {
		return Info{}, fmt.Errorf("encoding %s: %w", id, err)
	}
	if encoding == EncodingNone {
		stored = append([]byte(nil), data...)
	}

	info := Info{
		Size:       len(data),
		StoredSize: len(stored),
		Encoding:   encoding,
		Digest:     hex.EncodeToString(digest[:]),
	}

	s.mu.Lock()
	s.objects[id] = object{info: info, data: stored}
	s.mu.Unlock()
	return info, nil
}

// Get returns the uncompressed bytes for id. The returned slice is
// the caller's to keep.
func (s *Store) Get(id string) ([]byte, Info, error) {
	s.mu.RLock()
	stored, ok := s.objects[id]
	s.mu.RUnlock()
	if !ok {
		return nil, Info{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	data, err := decode(stored.data, stored.info.Encoding, stored.info.Size)
	if err != nil {
		return nil, Info{}, fmt.Errorf("decoding %s: %w", id, err)
	}
	if stored.info.Encoding == EncodingNone {
		data = append([]byte(nil), data...)
	}
	return data, stored.info, nil
}

// Stat returns the Info for id without decoding.
func (s *Store) Stat(id string) (Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.objects[id]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return stored.info, nil
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
