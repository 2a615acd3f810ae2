package test_utils

import (
	"context"
	"fmt"
	"sync"

	"trade-builder/lib/words"
	"trade-builder/modules/solution"
	"trade-builder/modules/token"

	"github.com/moznion/go-optional"
)

// InMemoryState is contract state kept in memory. Solutions are applied by
// staging every entry's state mutations against the contract of the
// predicate it solves and committing them together.
type InMemoryState struct {
	mtx   sync.Mutex
	store map[string][]words.Word
	cache map[string][]words.Word
}

var _ token.StateQuerier = &InMemoryState{}

func NewInMemoryState() *InMemoryState {
	return &InMemoryState{
		store: make(map[string][]words.Word),
		cache: make(map[string][]words.Word),
	}
}

func stateKey(contract solution.ContentAddress, key []words.Word) string {
	return fmt.Sprintf("%s/%v", contract, key)
}

// Set writes a value directly, bypassing staging. An empty value reads back
// as None.
func (m *InMemoryState) Set(contract solution.ContentAddress, key []words.Word, value []words.Word) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.set(m.store, stateKey(contract, key), value)
}

func (m *InMemoryState) set(into map[string][]words.Word, k string, value []words.Word) {
	into[k] = append([]words.Word{}, value...)
}

func (m *InMemoryState) QueryState(_ context.Context, contract solution.ContentAddress, key []words.Word) (token.Query, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	v, ok := m.store[stateKey(contract, key)]
	if !ok || len(v) == 0 {
		return optional.None[[]words.Word](), nil
	}
	return optional.Some(append([]words.Word{}, v...)), nil
}

// Apply validates the solution and commits all of its state mutations.
// Nothing is written when validation fails.
func (m *InMemoryState) Apply(sol solution.Solution) error {
	if err := sol.Validate(); err != nil {
		return err
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for _, d := range sol.Data {
		for _, mut := range d.StateMutations {
			m.set(m.cache, stateKey(d.PredicateToSolve.Contract, mut.Key), mut.Value)
		}
	}
	m.commit()
	return nil
}

func (m *InMemoryState) commit() {
	for k, v := range m.cache {
		if len(v) == 0 {
			delete(m.store, k)
			continue
		}
		m.store[k] = v
	}
	m.cache = make(map[string][]words.Word)
}
