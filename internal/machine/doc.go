// Package machine derives the per-device secret used to encrypt the stored
// API credential. The secret is a SHA-256 digest of host identifying
// strings and is recomputed on every use; nothing is written to disk.
package machine
