// Package bitset implements a growable bit vector with the set algebra the
// archetype machinery is built on. Unlike a fixed-width mask, a BitSet
// resizes transparently, and every binary operation treats a shorter operand
// as if it were zero-padded to the longer one's length.
package bitset

import (
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

const bitsPerWord = 64

// BitSet is a dynamic bit vector. The zero value is an empty set ready to use.
type BitSet struct {
	words []uint64
}

// New returns a BitSet with capacity for at least n bits preallocated.
// Capacity is a hint only; any BitSet grows on demand.
func New(n uint32) *BitSet {
	return &BitSet{words: make([]uint64, wordsFor(n))}
}

// FromArray builds a BitSet with the given bit indices set.
func FromArray(indices []uint32) *BitSet {
	b := &BitSet{}
	for _, i := range indices {
		b.Set(i)
	}
	return b
}

func wordsFor(n uint32) int {
	return (int(n) + bitsPerWord - 1) / bitsPerWord
}

func (b *BitSet) grow(words int) {
	if words <= len(b.words) {
		return
	}
	grown := make([]uint64, words)
	copy(grown, b.words)
	b.words = grown
}

// Set turns on bit i, growing the set if needed.
func (b *BitSet) Set(i uint32) {
	w := int(i / bitsPerWord)
	b.grow(w + 1)
	b.words[w] |= 1 << (i % bitsPerWord)
}

// Clear turns off bit i. Clearing past the current capacity is a no-op.
func (b *BitSet) Clear(i uint32) {
	w := int(i / bitsPerWord)
	if w >= len(b.words) {
		return
	}
	b.words[w] &^= 1 << (i % bitsPerWord)
}

// Get reports whether bit i is set. Bits past capacity read as zero.
func (b *BitSet) Get(i uint32) bool {
	w := int(i / bitsPerWord)
	if w >= len(b.words) {
		return false
	}
	return b.words[w]&(1<<(i%bitsPerWord)) != 0
}

// Flip toggles bit i, growing the set if needed.
func (b *BitSet) Flip(i uint32) {
	w := int(i / bitsPerWord)
	b.grow(w + 1)
	b.words[w] ^= 1 << (i % bitsPerWord)
}

// Count returns the number of set bits.
func (b *BitSet) Count() int {
	total := 0
	for _, w := range b.words {
		total += bits.OnesCount64(w)
	}
	return total
}

// IsEmpty reports whether no bit is set.
func (b *BitSet) IsEmpty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

func (b *BitSet) word(i int) uint64 {
	if i >= len(b.words) {
		return 0
	}
	return b.words[i]
}

// And intersects b with other in place.
func (b *BitSet) And(other *BitSet) {
	for i := range b.words {
		b.words[i] &= other.word(i)
	}
}

// Or unions other into b in place, growing b as needed.
func (b *BitSet) Or(other *BitSet) {
	b.grow(len(other.words))
	for i := range other.words {
		b.words[i] |= other.words[i]
	}
}

// Xor symmetric-differences other into b in place, growing b as needed.
func (b *BitSet) Xor(other *BitSet) {
	b.grow(len(other.words))
	for i := range other.words {
		b.words[i] ^= other.words[i]
	}
}

// AndNot removes other's bits from b in place.
func (b *BitSet) AndNot(other *BitSet) {
	for i := range b.words {
		b.words[i] &^= other.word(i)
	}
}

// AndOf returns a new set holding the intersection of b and other.
func (b *BitSet) AndOf(other *BitSet) *BitSet {
	out := b.Clone()
	out.And(other)
	return out
}

// OrOf returns a new set holding the union of b and other.
func (b *BitSet) OrOf(other *BitSet) *BitSet {
	out := b.Clone()
	out.Or(other)
	return out
}

// XorOf returns a new set holding the symmetric difference of b and other.
func (b *BitSet) XorOf(other *BitSet) *BitSet {
	out := b.Clone()
	out.Xor(other)
	return out
}

// AndNotOf returns a new set holding b minus other.
func (b *BitSet) AndNotOf(other *BitSet) *BitSet {
	out := b.Clone()
	out.AndNot(other)
	return out
}

// Contains reports whether every bit set in other is also set in b.
func (b *BitSet) Contains(other *BitSet) bool {
	n := max(len(b.words), len(other.words))
	for i := 0; i < n; i++ {
		ow := other.word(i)
		if b.word(i)&ow != ow {
			return false
		}
	}
	return true
}

// Intersects reports whether b and other share at least one set bit.
func (b *BitSet) Intersects(other *BitSet) bool {
	n := min(len(b.words), len(other.words))
	for i := 0; i < n; i++ {
		if b.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

// Equals reports whether b and other hold the same bits, ignoring capacity.
func (b *BitSet) Equals(other *BitSet) bool {
	n := max(len(b.words), len(other.words))
	for i := 0; i < n; i++ {
		if b.word(i) != other.word(i) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of b.
func (b *BitSet) Clone() *BitSet {
	out := &BitSet{words: make([]uint64, len(b.words))}
	copy(out.words, b.words)
	return out
}

// Range calls fn for every set bit index in ascending order until fn
// returns false.
func (b *BitSet) Range(fn func(i uint32) bool) {
	for wi, w := range b.words {
		for w != 0 {
			bit := uint32(bits.TrailingZeros64(w))
			if !fn(uint32(wi)*bitsPerWord + bit) {
				return
			}
			w &= w - 1
		}
	}
}

// ToArray returns the set bit indices in ascending order.
func (b *BitSet) ToArray() []uint32 {
	out := make([]uint32, 0, b.Count())
	b.Range(func(i uint32) bool {
		out = append(out, i)
		return true
	})
	return out
}

// Hash returns a digest over the significant words. Trailing zero words are
// ignored so equal sets hash equal regardless of declared capacity.
func (b *BitSet) Hash() uint64 {
	end := len(b.words)
	for end > 0 && b.words[end-1] == 0 {
		end--
	}
	d := xxhash.New()
	var buf [8]byte
	for _, w := range b.words[:end] {
		binary.LittleEndian.PutUint64(buf[:], w)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
