// Package redisserver serves the respd keyspace over RESP2 and RESP3.
//
// Each connection owns a resp.Buffer. Bytes read from the socket are
// appended to it and every complete frame is decoded with the streaming
// driver and dispatched before more bytes are read. Inline commands such as
// "PING\r\n" are accepted when the first byte is not a RESP marker.
//
// Supported commands:
//   - PING, ECHO, QUIT, HELLO
//   - GET, SET, DEL, EXISTS, TYPE, DBSIZE, FLUSHDB
//   - HGET, HSET, HGETALL, HDEL, HLEN
package redisserver
