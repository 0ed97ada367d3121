// Package bloom provides a probabilistic set of already skimmed URIs so a
// resumed batch can skip known-new URIs without touching the database.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is used when seeding a filter from stored URIs.
const DefaultFalsePositiveRate = 0.01

// minCapacity keeps small seeds from producing a filter that saturates
// as soon as the batch adds to it.
const minCapacity = 1000

// Filter is a Bloom filter over URIs. It is safe for concurrent use.
type Filter struct {
	mu sync.RWMutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URIs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seed creates a filter holding uris, with room for as many again.
func Seed(uris []string, fpRate float64) *Filter {
	n := uint(2 * len(uris))
	if n < minCapacity {
		n = minCapacity
	}
	f := NewFilter(n, fpRate)
	for _, uri := range uris {
		f.f.AddString(uri)
	}
	return f
}

// Add adds a URI to the filter.
func (f *Filter) Add(uri string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(uri)
}

// Test returns true if the URI might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(uri string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.f.TestString(uri)
}

// EstimatedCount returns the approximate number of URIs in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return uint(f.f.ApproximatedSize())
}
