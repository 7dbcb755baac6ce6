// Package addressing splits memory addresses into cache coordinates.
package addressing

// AddressBits is the width of the addresses the decoder operates on.
const AddressBits = 64

// A Decoder splits a 64-bit address into the tag, set index, and block
// offset fields defined by a cache geometry. The set index field is the
// SetIndexBits bits directly above the BlockOffsetBits low bits; the tag
// is everything above the set index field.
type Decoder struct {
	SetIndexBits    int
	BlockOffsetBits int
}

// Decode extracts the tag, set index, and block offset of addr.
//
// Degenerate geometries stay well-defined: when SetIndexBits is 0 the
// set index is always 0, and when the set and offset fields together
// consume all 64 bits the tag is 0.
func (d Decoder) Decode(addr uint64) (tag, setIndex, offset uint64) {
	offset = addr & fieldMask(d.BlockOffsetBits)

	if d.SetIndexBits > 0 {
		setIndex = (addr >> uint(d.BlockOffsetBits)) &
			fieldMask(d.SetIndexBits)
	}

	tagShift := d.SetIndexBits + d.BlockOffsetBits
	if tagShift < AddressBits {
		tag = addr >> uint(tagShift)
	}

	return tag, setIndex, offset
}

func fieldMask(bits int) uint64 {
	if bits >= AddressBits {
		return ^uint64(0)
	}

	return (uint64(1) << uint(bits)) - 1
}
