package cache

import (
	"fmt"
	"strconv"

	"github.com/sarchlab/csim/addressing"
)

// Builder can build caches.
type Builder struct {
	setIndexBits    int
	blockOffsetBits int
	associativity   int
}

// MakeBuilder creates a builder with the default geometry: 64 sets,
// 4-way associative, 64-byte blocks.
func MakeBuilder() Builder {
	return Builder{
		setIndexBits:    6,
		blockOffsetBits: 6,
		associativity:   4,
	}
}

// WithSetIndexBits sets the number of set index bits. The cache will
// have 2^setIndexBits sets.
func (b Builder) WithSetIndexBits(setIndexBits int) Builder {
	b.setIndexBits = setIndexBits
	return b
}

// WithBlockOffsetBits sets the number of block offset bits. Each block
// holds 2^blockOffsetBits bytes.
func (b Builder) WithBlockOffsetBits(blockOffsetBits int) Builder {
	b.blockOffsetBits = blockOffsetBits
	return b
}

// WithAssociativity sets the number of lines per set.
func (b Builder) WithAssociativity(associativity int) Builder {
	b.associativity = associativity
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.setIndexBits < 0 {
		panic(fmt.Sprintf(
			"cache: set index bits must not be negative, got %d",
			b.setIndexBits))
	}

	if b.blockOffsetBits < 0 {
		panic(fmt.Sprintf(
			"cache: block offset bits must not be negative, got %d",
			b.blockOffsetBits))
	}

	if b.setIndexBits+b.blockOffsetBits > addressing.AddressBits {
		panic(fmt.Sprintf(
			"cache: set index bits and block offset bits together "+
				"exceed the %d-bit address width",
			addressing.AddressBits))
	}

	if b.associativity < 1 {
		panic(fmt.Sprintf(
			"cache: associativity must be at least 1, got %d",
			b.associativity))
	}
}

// Build builds a cache. It panics if the geometry is invalid or too
// large to allocate.
func (b Builder) Build(name string) *Cache {
	b.parametersMustBeValid()

	if b.setIndexBits >= strconv.IntSize-1 {
		panic(fmt.Sprintf(
			"cache: cannot allocate 2^%d sets", b.setIndexBits))
	}

	numSets := 1 << uint(b.setIndexBits)

	c := &Cache{
		name:            name,
		setIndexBits:    b.setIndexBits,
		blockOffsetBits: b.blockOffsetBits,
		associativity:   b.associativity,
	}

	c.sets = make([]Set, numSets)
	for i := range c.sets {
		c.sets[i] = newSet(b.associativity)
	}

	return c
}
