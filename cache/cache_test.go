package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cache", func() {
	var c *Cache

	BeforeEach(func() {
		c = MakeBuilder().
			WithSetIndexBits(1).
			WithBlockOffsetBits(1).
			WithAssociativity(2).
			Build("Cache")
	})

	It("should report its geometry", func() {
		Expect(c.NumSets()).To(Equal(2))
		Expect(c.Associativity()).To(Equal(2))
		Expect(c.BlockSize()).To(Equal(uint64(2)))
	})

	It("should miss on the first access and hit afterwards", func() {
		result := c.Access(0, 0x10, false)
		Expect(result.Outcome).To(Equal(MissNoEvict))

		result = c.Access(0, 0x10, false)
		Expect(result.Outcome).To(Equal(Hit))
	})

	It("should keep repeated loads from changing residency", func() {
		c.Access(0, 0x10, false)

		for i := 0; i < 10; i++ {
			result := c.Access(0, 0x10, false)
			Expect(result.Outcome).To(Equal(Hit))
		}

		Expect(c.Set(0).Len()).To(Equal(1))
	})

	It("should evict the LRU line when a full set misses", func() {
		c.Access(0, 0xA, false)
		c.Access(0, 0xB, false)
		c.Access(0, 0xA, false)

		result := c.Access(0, 0xC, false)

		Expect(result.Outcome).To(Equal(MissWithEvict))

		_, found := c.Set(0).Find(0xA)
		Expect(found).To(BeTrue())
		_, found = c.Set(0).Find(0xB)
		Expect(found).To(BeFalse())
	})

	It("should mark a line dirty on a store hit and keep it dirty "+
		"across later loads", func() {
		c.Access(0, 0x10, false)
		c.Access(0, 0x10, true)
		c.Access(0, 0x10, false)

		pos, found := c.Set(0).Find(0x10)
		Expect(found).To(BeTrue())
		Expect(c.Set(0).Lines()[pos].Dirty).To(BeTrue())
	})

	It("should report a dirty eviction when a dirty line is replaced",
		func() {
			c.Access(0, 0xA, true)
			c.Access(0, 0xB, false)

			result := c.Access(0, 0xC, false)

			Expect(result.Outcome).To(Equal(MissWithEvict))
			Expect(result.EvictedDirty).To(BeTrue())
		})

	It("should report a clean eviction when a clean line is replaced",
		func() {
			c.Access(0, 0xA, false)
			c.Access(0, 0xB, false)

			result := c.Access(0, 0xC, false)

			Expect(result.Outcome).To(Equal(MissWithEvict))
			Expect(result.EvictedDirty).To(BeFalse())
		})

	It("should keep sets independent", func() {
		c.Access(0, 0x10, true)

		result := c.Access(1, 0x10, false)

		Expect(result.Outcome).To(Equal(MissNoEvict))
	})

	It("should never exceed the associativity and never hold "+
		"duplicate tags", func() {
		tags := []uint64{1, 2, 3, 1, 4, 2, 5, 1, 6, 3, 1, 7}
		for _, tag := range tags {
			c.Access(0, tag, tag%2 == 0)

			Expect(c.Set(0).Len()).To(BeNumerically("<=", 2))

			seen := map[uint64]bool{}
			for _, line := range c.Set(0).Lines() {
				Expect(seen[line.Tag]).To(BeFalse())
				seen[line.Tag] = true
			}
		}
	})

	It("should count resident dirty lines at the end of a run", func() {
		c.Access(0, 0xA, true)
		c.Access(0, 0xB, true)
		c.Access(1, 0xA, false)

		Expect(c.DirtyLineCount()).To(Equal(uint64(2)))
	})
})

var _ = Describe("Builder", func() {
	It("should reject negative set index bits", func() {
		Expect(func() {
			MakeBuilder().WithSetIndexBits(-1).Build("Cache")
		}).To(Panic())
	})

	It("should reject negative block offset bits", func() {
		Expect(func() {
			MakeBuilder().WithBlockOffsetBits(-1).Build("Cache")
		}).To(Panic())
	})

	It("should reject geometries wider than the address", func() {
		Expect(func() {
			MakeBuilder().
				WithSetIndexBits(33).
				WithBlockOffsetBits(32).
				Build("Cache")
		}).To(Panic())
	})

	It("should reject non-positive associativity", func() {
		Expect(func() {
			MakeBuilder().WithAssociativity(0).Build("Cache")
		}).To(Panic())
	})

	It("should build a single-set cache when the set index is "+
		"zero bits wide", func() {
		c := MakeBuilder().
			WithSetIndexBits(0).
			WithBlockOffsetBits(0).
			WithAssociativity(1).
			Build("Cache")

		Expect(c.NumSets()).To(Equal(1))
		Expect(c.BlockSize()).To(Equal(uint64(1)))
	})
})
