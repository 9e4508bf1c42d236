package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/go-git/go-billy/v5"

	"github.com/dbsmedya/stackburn/internal/filetype"
)

// Supported digest algorithms.
const (
	HashSHA256 = "sha256"
	HashXXHash = "xxhash"
)

// DefaultReadBufferBytes is the read block size used when none is configured.
const DefaultReadBufferBytes = 32 * 1024

// Hasher computes streaming content digests with pooled read buffers and
// pooled digest state. It is safe for concurrent use.
type Hasher struct {
	algorithm  string
	bufferPool sync.Pool
	digestPool sync.Pool
}

// Digest is the outcome of hashing one file.
type Digest struct {
	Sum    string // hex encoded
	Bucket string // type bucket sniffed from the first block
}

// NewHasher creates a Hasher for algorithm ("sha256" or "xxhash") reading in
// blocks of bufSize bytes.
func NewHasher(algorithm string, bufSize int) (*Hasher, error) {
	if bufSize <= 0 {
		bufSize = DefaultReadBufferBytes
	}

	var newDigest func() hash.Hash
	switch algorithm {
	case HashSHA256, "":
		algorithm = HashSHA256
		newDigest = sha256.New
	case HashXXHash:
		newDigest = func() hash.Hash { return xxhash.New() }
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}

	h := &Hasher{algorithm: algorithm}
	h.bufferPool.New = func() any {
		b := make([]byte, bufSize)
		return &b
	}
	h.digestPool.New = func() any {
		return newDigest()
	}
	return h, nil
}

// Algorithm returns the digest algorithm name.
func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// HashFile hashes the file at path. The first block is also used to sniff
// the file's type bucket, so the file is read only once.
func (h *Hasher) HashFile(fs billy.Filesystem, path, name string) (Digest, error) {
	file, err := fs.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer func() { _ = file.Close() }()

	d := h.digestPool.Get().(hash.Hash)
	d.Reset()
	defer h.digestPool.Put(d)

	bufPtr := h.bufferPool.Get().(*[]byte)
	buf := *bufPtr
	defer h.bufferPool.Put(bufPtr)

	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Digest{}, err
	}
	_, _ = d.Write(buf[:n])
	bucket := filetype.DetectBucket(buf[:n], name)

	if n == len(buf) {
		if _, err := io.CopyBuffer(d, file, buf); err != nil {
			return Digest{}, err
		}
	}

	return Digest{
		Sum:    hex.EncodeToString(d.Sum(nil)),
		Bucket: bucket,
	}, nil
}
