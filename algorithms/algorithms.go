// Package algorithms maps digest algorithm names to digester constructors.
//
// The go-digest built-ins (sha256, sha384, sha512) are used as registered;
// the remaining algorithms bind existing hash implementations from their
// upstream packages. No hash function is implemented here.
package algorithms

import (
	"fmt"
	"hash"
	"sort"

	"github.com/opencontainers/go-digest"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// ErrUnsupported is returned when an algorithm has no known constructor.
var ErrUnsupported = fmt.Errorf("unsupported digest algorithm")

// Algorithms available beyond the go-digest built-ins.
const (
	BLAKE2b256 digest.Algorithm = "blake2b-256"
	BLAKE2b512 digest.Algorithm = "blake2b-512"
	SHA3_256   digest.Algorithm = "sha3-256"
	SHA3_512   digest.Algorithm = "sha3-512"
	BLAKE3     digest.Algorithm = "blake3"
)

var constructors = map[digest.Algorithm]func() hash.Hash{
	BLAKE2b256: func() hash.Hash { h, _ := blake2b.New256(nil); return h },
	BLAKE2b512: func() hash.Hash { h, _ := blake2b.New512(nil); return h },
	SHA3_256:   func() hash.Hash { return sha3.New256() },
	SHA3_512:   func() hash.Hash { return sha3.New512() },
	BLAKE3:     func() hash.Hash { return blake3.New() },
}

// New returns a fresh digester for the named algorithm. ErrUnsupported is
// returned for algorithms known to neither go-digest nor this package.
func New(alg digest.Algorithm) (digest.Digester, error) {
	if alg.Available() {
		return alg.Digester(), nil
	}

	newHash, ok := constructors[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, alg)
	}

	return &digester{
		alg:  alg,
		hash: newHash(),
	}, nil
}

// Available returns the algorithms New accepts, sorted by name.
func Available() []digest.Algorithm {
	algs := []digest.Algorithm{digest.SHA256, digest.SHA384, digest.SHA512}
	for alg := range constructors {
		algs = append(algs, alg)
	}

	sort.Slice(algs, func(i, j int) bool { return algs[i] < algs[j] })
	return algs
}

// digester pairs an algorithm name with a hash instance, for algorithms
// outside the go-digest registry.
type digester struct {
	alg  digest.Algorithm
	hash hash.Hash
}

func (d *digester) Hash() hash.Hash {
	return d.hash
}

func (d *digester) Digest() digest.Digest {
	return digest.NewDigest(d.alg, d.hash)
}
