package memory

import (
	"context"

	"github.com/yndnr/respd/internal/storage"
	"github.com/yndnr/respd/pkg/cmap"
	"github.com/yndnr/respd/pkg/resp"
)

type valueType uint8

const (
	typeString valueType = iota + 1
	typeHash
)

// entry is the value stored under a key. fields is only touched under the
// owning shard's lock.
type entry struct {
	typ    valueType
	value  resp.Frame
	fields map[string]resp.Frame
}

// Store is a concurrent in-memory keyspace.
type Store struct {
	keys *cmap.Map[*entry]
}

// Option configures the Store.
type Option func(*options)

type options struct {
	shards int
}

// WithShards sets the number of keyspace shards. It must be a power of two.
func WithShards(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	o := options{shards: cmap.DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{keys: cmap.New[*entry](o.shards)}
}

// Get returns the string value of key.
func (s *Store) Get(_ context.Context, key string) (resp.Frame, error) {
	e, ok := s.keys.Get(key)
	if !ok {
		return nil, storage.ErrKeyNotFound
	}
	if e.typ != typeString {
		return nil, storage.ErrWrongType
	}
	return e.value, nil
}

// Set stores value under key, replacing any value of any type.
func (s *Store) Set(_ context.Context, key string, value resp.Frame) {
	s.keys.Set(key, &entry{typ: typeString, value: value})
}

// Del removes keys and returns how many existed.
func (s *Store) Del(_ context.Context, keys ...string) int {
	n := 0
	for _, k := range keys {
		if s.keys.Delete(k) {
			n++
		}
	}
	return n
}

// Exists returns how many of keys exist. A key named twice counts twice.
func (s *Store) Exists(_ context.Context, keys ...string) int {
	n := 0
	for _, k := range keys {
		if s.keys.Has(k) {
			n++
		}
	}
	return n
}

// HGet returns one field of the hash at key.
func (s *Store) HGet(_ context.Context, key, field string) (resp.Frame, error) {
	var (
		v   resp.Frame
		err = storage.ErrKeyNotFound
	)
	s.keys.View(key, func(e *entry, ok bool) {
		switch {
		case !ok:
		case e.typ != typeHash:
			err = storage.ErrWrongType
		default:
			if fv, found := e.fields[field]; found {
				v, err = fv, nil
			}
		}
	})
	return v, err
}

// HSet stores value in field of the hash at key, creating the hash if
// needed. It reports whether the field is new.
func (s *Store) HSet(_ context.Context, key, field string, value resp.Frame) (bool, error) {
	var (
		created bool
		err     error
	)
	s.keys.Update(key, func(e *entry, ok bool) (*entry, bool) {
		if !ok {
			e = &entry{typ: typeHash, fields: make(map[string]resp.Frame)}
		} else if e.typ != typeHash {
			err = storage.ErrWrongType
			return e, true
		}
		_, exists := e.fields[field]
		created = !exists
		e.fields[field] = value
		return e, true
	})
	return created, err
}

// HGetAll returns every field of the hash at key as a map ordered by field
// name. A missing key yields an empty map.
func (s *Store) HGetAll(_ context.Context, key string) (*resp.Map, error) {
	m := resp.NewMap()
	var err error
	s.keys.View(key, func(e *entry, ok bool) {
		if !ok {
			return
		}
		if e.typ != typeHash {
			err = storage.ErrWrongType
			return
		}
		for f, v := range e.fields {
			m.Set(f, v)
		}
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// HDel removes fields from the hash at key and returns how many existed.
// The key is removed with its last field.
func (s *Store) HDel(_ context.Context, key string, fields ...string) (int, error) {
	var (
		n   int
		err error
	)
	s.keys.Update(key, func(e *entry, ok bool) (*entry, bool) {
		if !ok {
			return nil, false
		}
		if e.typ != typeHash {
			err = storage.ErrWrongType
			return e, true
		}
		for _, f := range fields {
			if _, exists := e.fields[f]; exists {
				delete(e.fields, f)
				n++
			}
		}
		return e, len(e.fields) > 0
	})
	return n, err
}

// HLen returns the number of fields in the hash at key.
func (s *Store) HLen(_ context.Context, key string) (int, error) {
	var (
		n   int
		err error
	)
	s.keys.View(key, func(e *entry, ok bool) {
		switch {
		case !ok:
		case e.typ != typeHash:
			err = storage.ErrWrongType
		default:
			n = len(e.fields)
		}
	})
	return n, err
}

// Type returns "string", "hash" or "none" for key.
func (s *Store) Type(_ context.Context, key string) string {
	e, ok := s.keys.Get(key)
	switch {
	case !ok:
		return "none"
	case e.typ == typeHash:
		return "hash"
	default:
		return "string"
	}
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return s.keys.Count()
}

// Flush removes every key.
func (s *Store) Flush(_ context.Context) {
	s.keys.Clear()
}
