// Package store holds the per-resource state containers read by the views.
//
// Every fetch moves a store through start, then success or failure. Overlapping
// fetches are not coalesced: whichever response resolves last is what the store
// keeps.
package store

import (
	"context"
	"log/slog"
	"sync"
)

type Entity interface {
	GetID() int
}

// cloner is implemented by entities holding nested slices.
type cloner[T any] interface {
	Clone() T
}

func clone[T Entity](item T) T {
	if c, ok := any(item).(cloner[T]); ok {
		return c.Clone()
	}
	return item
}

type ListFunc[T Entity] func(ctx context.Context) ([]T, error)

type GetFunc[T Entity] func(ctx context.Context, id int) (T, error)

// State is a snapshot of a Store. Error is empty when the last fetch succeeded.
type State[T Entity] struct {
	List     []T
	Selected *T
	Loading  bool
	Error    string
}

type Store[T Entity] struct {
	name     string
	singular string
	list     ListFunc[T]
	get      GetFunc[T]
	log      *slog.Logger

	mu        sync.Mutex
	state     State[T]
	listeners map[int]func(State[T])
	nextID    int
}

// New builds a store for one resource. name is the plural used in default
// error messages ("drivers"), singular the form used for single fetches.
func New[T Entity](name, singular string, list ListFunc[T], get GetFunc[T], log *slog.Logger) *Store[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Store[T]{
		name:      name,
		singular:  singular,
		list:      list,
		get:       get,
		log:       log.With(slog.String("store", name)),
		listeners: make(map[int]func(State[T])),
	}
}

func (s *Store[T]) Name() string { return s.name }

// State returns a deep copy that does not alias the store's internals.
func (s *Store[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store[T]) snapshot() State[T] {
	st := State[T]{
		Loading: s.state.Loading,
		Error:   s.state.Error,
	}
	if s.state.List != nil {
		st.List = make([]T, len(s.state.List))
		for i, item := range s.state.List {
			st.List[i] = clone(item)
		}
	}
	if s.state.Selected != nil {
		sel := clone(*s.state.Selected)
		st.Selected = &sel
	}
	return st
}

// Subscribe registers fn to receive a snapshot after every state change.
func (s *Store[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update applies fn under the lock and notifies listeners after releasing it.
func (s *Store[T]) update(fn func(*State[T])) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.snapshot()
	listeners := make([]func(State[T]), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store[T]) pending() {
	s.update(func(st *State[T]) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *Store[T]) rejected(err error, fallback string) {
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	s.log.Error("Fetch failed", slog.Any("error", err))
	s.update(func(st *State[T]) {
		st.Loading = false
		st.Error = msg
	})
}

// FetchAll replaces the list with the response. On failure the list is kept.
func (s *Store[T]) FetchAll(ctx context.Context) error {
	s.pending()

	items, err := s.list(ctx)
	if err != nil {
		s.rejected(err, "Failed to fetch "+s.name)
		return err
	}

	s.update(func(st *State[T]) {
		st.Loading = false
		st.List = items
	})
	return nil
}

// FetchOne replaces the selected item with the response and returns it.
// Concurrent callers should render from the returned item, since the selected
// slot holds whichever response resolved last.
func (s *Store[T]) FetchOne(ctx context.Context, id int) (T, error) {
	s.pending()

	item, err := s.get(ctx, id)
	if err != nil {
		s.rejected(err, "Failed to fetch "+s.singular)
		var zero T
		return zero, err
	}

	s.update(func(st *State[T]) {
		st.Loading = false
		sel := clone(item)
		st.Selected = &sel
	})
	return item, nil
}

func (s *Store[T]) ClearSelected() {
	s.update(func(st *State[T]) {
		st.Selected = nil
	})
}
