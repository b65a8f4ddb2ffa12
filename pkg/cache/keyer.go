package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// ArtifactKeyOpts holds the rendering options that distinguish artifacts
// produced from the same document.
type ArtifactKeyOpts struct {
	Format  string
	Backend string
}

// Keyer builds cache keys.
type Keyer interface {
	// DocumentHash returns the content hash of a DOT document.
	DocumentHash(document string) string

	// ArtifactKey returns the key of an artifact rendered from the document
	// with the given hash.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// Hash returns the SHA-256 hex digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentHash returns the SHA-256 hex digest of document.
func (DefaultKeyer) DocumentHash(document string) string {
	return Hash([]byte(document))
}

// ArtifactKey returns "artifact:<digest>". The digest covers the document
// hash, the format and the backend, separated by NUL so no two option sets
// collide.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	h := sha256.New()
	for _, part := range []string{docHash, opts.Format, opts.Backend} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "artifact:" + hex.EncodeToString(h.Sum(nil))
}

// ScopedKeyer prefixes artifact keys, so several deployments can share
// one Redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "graphbot:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentHash delegates to the inner keyer. Hashes identify content and
// are never prefixed.
func (k *ScopedKeyer) DocumentHash(document string) string {
	return k.inner.DocumentHash(document)
}

// ArtifactKey returns the inner key with the prefix prepended.
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}
