// Package memory provides the in-memory keyspace for respd.
//
// A key holds either a string value or a hash of fields. Values are stored
// as resp frames so replies can be written back without conversion.
//
// Keys are spread over a sharded concurrent map. Hash fields are only read
// or written while holding the lock of the shard their key lives in, so a
// single HSET or HDEL is atomic with respect to other commands on that key.
package memory
