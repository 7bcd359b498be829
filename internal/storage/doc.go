// Package storage holds what the respd keyspace implementations share.
//
// The only implementation is the in-memory store in the memory
// subpackage; keys live for the lifetime of the process.
package storage
