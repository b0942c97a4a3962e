// Package ct collects the constant-time primitives needed on every
// secret-dependent control-flow or memory-addressing path: verify,
// conditional move, and integer load/store. Implemented with bitmask
// arithmetic (no secret-dependent branches), in the style of the branch-free
// freeze()/barrettReduce() in kyber/reduce.go.
package ct

import "crypto/subtle"

// Equal reports whether a and b are equal, in time independent of their
// contents (but not their length). Thin wrapper over crypto/subtle so every
// package in this module goes through one seam.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// CMovBytes sets dst = src if v == 1, leaves dst unchanged if v == 0, in
// constant time. v must be 0 or 1; any other value is undefined behavior by
// contract (callers in this module only ever pass mask bits derived from
// Equal/IsZero-style comparisons).
func CMovBytes(dst, src []byte, v int) {
	subtle.ConstantTimeCopy(v, dst, src)
}

// SelectByte returns b if v == 1, a if v == 0, branchlessly.
func SelectByte(v int, a, b byte) byte {
	mask := byte(subtle.ConstantTimeSelect(v, 1, 0))
	mask = -mask
	return (a &^ mask) | (b & mask)
}

// IsZero16 returns a mask of all-ones if x == 0, all-zeros otherwise.
func IsZero16(x uint16) uint16 {
	v := uint32(x)
	nz := (v | (-v)) >> 31 // 1 if x != 0, else 0
	return uint16(nz - 1)  // nz==0 -> 0xFFFF, nz==1 -> 0x0000
}

// Mask16 returns 0xFFFF if the condition bit cond is 1, else 0x0000. cond
// must be 0 or 1.
func Mask16(cond uint) uint16 {
	return uint16(-int16(cond & 1))
}

// Mask32 returns 0xFFFFFFFF if cond is 1, else 0, cond must be 0 or 1.
func Mask32(cond uint) uint32 {
	return uint32(-int32(cond & 1))
}

// Mask64 returns all-ones if cond is 1, else 0, cond must be 0 or 1.
func Mask64(cond uint) uint64 {
	return uint64(-int64(cond & 1))
}

// SelectUint16 returns b when cond==1, a when cond==0.
func SelectUint16(cond uint, a, b uint16) uint16 {
	m := Mask16(cond)
	return (a &^ m) | (b & m)
}

// SelectUint32 returns b when cond==1, a when cond==0.
func SelectUint32(cond uint, a, b uint32) uint32 {
	m := Mask32(cond)
	return (a &^ m) | (b & m)
}

// LoadLittleEndian reads up to 8 (n) bytes of x as an unsigned little-endian
// integer, generalized to the 64-bit case McEliece/Dilithium packing needs.
func LoadLittleEndian(x []byte, n int) uint64 {
	var r uint64
	for i := 0; i < n; i++ {
		r |= uint64(x[i]) << (8 * uint(i))
	}
	return r
}

// StoreLittleEndian writes the low n bytes of v into dst in little-endian order.
func StoreLittleEndian(dst []byte, v uint64, n int) {
	for i := 0; i < n; i++ {
		dst[i] = byte(v >> (8 * uint(i)))
	}
}
