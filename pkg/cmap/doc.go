// Package cmap provides the sharded concurrent map behind the respd keyspace.
//
// Keys are strings and are spread over a power-of-two number of shards by
// their murmur3 hash. Each shard is a plain map guarded by its own RWMutex.
//
//   - Sharding: configurable shard count for parallelism
//   - Fine-grained locking: per-shard RWMutex
//   - Atomic read-modify-write: View and Update run a callback under the shard lock
//   - Iteration: shard by shard while holding read locks
//
// Usage:
//
//	m := cmap.New[*entry](32)
//	m.Set("key", e)
//	e, ok := m.Get("key")
//
// Values that are themselves mutable (a hash's field map, for example) must
// only be touched inside View or Update so the shard lock covers them.
package cmap
