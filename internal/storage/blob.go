package storage

import "io"

// BlobStore holds uploaded files (payment proofs). Keys are slash-separated
// paths chosen by the caller.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
