// Package ssdb implements backend.Conn for a remote SSDB-compatible server.
// SSDB speaks a line-oriented text protocol over a plain TCP or unix socket:
// every request and reply is a list of length-prefixed blocks terminated by
// an empty line, with the first reply block carrying the status. This client
// maps the storage interface's container operations onto the matching server
// commands and keeps all protocol details internal.
//
// The package focuses on:
//   - A connection pool with a configurable number of connections per
//     endpoint, round-robin selection and automatic reconnect of broken
//     connections
//   - Retries with exponential backoff and jitter, so transient network
//     failures surface as latency instead of errors
//   - Strict request/response framing: the protocol multiplexes nothing, so
//     each pooled connection is held for exactly one round trip
//   - Operational visibility through command counters and latency metrics
//
// Key Components:
//
//   - Config: Client configuration (endpoints, timeout, retries, pool size,
//     socket options). FromEnv reads it from BKV_-prefixed environment
//     variables, with .env files loaded first.
//
//   - New: Connects the pool and returns a backend.Conn.
//
// Endpoints:
//
//	Endpoints are given as "host:port" or "tcp://host:port" for TCP and
//	"unix:///path/to.sock" for unix domain sockets.
//
// Thread Safety:
//
//	The returned Conn is safe for concurrent use. Concurrency is bounded by
//	the pool size; requests beyond it queue on the per-connection locks.
//
// Usage:
//
//	cfg := ssdb.DefaultConfig()
//	cfg.Endpoints = []string{"tcp://127.0.0.1:8888"}
//	conn, err := ssdb.New(cfg)
//	if err != nil { ... }
//	defer conn.Close()
package ssdb
