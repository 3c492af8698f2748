// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package proofstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/provernet/coordinator/lib/schema/network"
)

// ErrProgramNotFound means no program is registered under the vk hash.
var ErrProgramNotFound = errors.New("program not found")

// ProgramRegistry maps verifying-key hashes to programs. Safe for
// concurrent use.
type ProgramRegistry struct {
	mu       sync.RWMutex
	programs map[string]network.Program
}

func NewProgramRegistry() *ProgramRegistry {
	return &ProgramRegistry{programs: make(map[string]network.Program)}
}

// Create registers program under its VKHash, replacing any previous
// registration. Reports whether one was replaced.
func (r *ProgramRegistry) Create(program network.Program) (replaced bool, err error) {
	if len(program.VKHash) == 0 {
		return false, errors.New("program has no vk hash")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := string(program.VKHash)
	_, replaced = r.programs[key]
	r.programs[key] = program.Clone()
	return replaced, nil
}

// Get returns the program registered under vkHash.
func (r *ProgramRegistry) Get(vkHash []byte) (network.Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	program, ok := r.programs[string(vkHash)]
	if !ok {
		return network.Program{}, fmt.Errorf("%w: %x", ErrProgramNotFound, vkHash)
	}
	return program.Clone(), nil
}

// Len returns the number of registered programs.
func (r *ProgramRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.programs)
}
