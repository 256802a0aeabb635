// Package merkle provides the commitment a block makes over its ordered set
// of transactions. The root is a single level digest over the concatenation
// of every value's hash, so the order of the values is part of the root.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// Hashable represents the behavior concrete data must exhibit to be used
// when calculating a merkle root.
type Hashable interface {
	Digest() string
}

// =============================================================================

type options struct {
	hashStrategy func() hash.Hash
}

// WithHashStrategy is used to change the default hash strategy of using sha256
// when calculating a root.
func WithHashStrategy(hashStrategy func() hash.Hash) func(o *options) {
	return func(o *options) {
		o.hashStrategy = hashStrategy
	}
}

// Root calculates the hex encoded merkle root for the specified values.
func Root[T Hashable](values []T, opts ...func(o *options)) string {
	o := options{
		hashStrategy: sha256.New,
	}

	for _, opt := range opts {
		opt(&o)
	}

	var sb strings.Builder
	for _, value := range values {
		sb.WriteString(value.Digest())
	}

	h := o.hashStrategy()
	h.Write([]byte(sb.String()))

	return hex.EncodeToString(h.Sum(nil))
}

// Verify recalculates the root for the values and compares it against the
// root that was provided.
func Verify[T Hashable](values []T, root string, opts ...func(o *options)) error {
	calculated := Root(values, opts...)
	if calculated != root {
		return fmt.Errorf("merkle root does not match values, got %s, exp %s", root, calculated)
	}

	return nil
}
