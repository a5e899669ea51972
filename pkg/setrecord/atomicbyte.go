package setrecord

import (
	"sync/atomic"
	"unsafe"
)

// The standard library has no atomic byte type, so individual cells are
// OR'd and loaded through the enclosing 4-byte-aligned uint32 word via a
// CAS loop. This requires cells' backing array to be at least 4-byte
// aligned and padded to a multiple of 4 bytes - both guaranteed by
// [mmapAnon] (page-aligned allocations) and by padTo4 below.

// padTo4 rounds n up to the next multiple of 4.
func padTo4(n uint64) uint64 {
	return (n + 3) &^ 3
}

// wordFor returns a pointer to the uint32 word containing byte index i and
// the bit shift of that byte within the word (little-endian: byte 0 is the
// low byte).
func wordFor(cells []byte, i uint64) (*uint32, uint) {
	wordStart := i &^ 3
	shift := uint(i&3) * 8

	return (*uint32)(unsafe.Pointer(&cells[wordStart])), shift
}

// atomicFetchOrByte ORs mask into cells[i] and returns the value the byte
// held before the OR. Go's sync/atomic provides sequential consistency,
// strictly stronger than the relaxed ordering this OR-only marking
// scheme actually needs, never weaker.
func atomicFetchOrByte(cells []byte, i uint64, mask byte) byte {
	ptr, shift := wordFor(cells, i)

	for {
		old := atomic.LoadUint32(ptr)
		oldByte := byte(old >> shift)

		newByte := oldByte | mask
		if newByte == oldByte {
			return oldByte
		}

		newWord := (old &^ (0xFF << shift)) | uint32(newByte)<<shift
		if atomic.CompareAndSwapUint32(ptr, old, newWord) {
			return oldByte
		}
	}
}

// atomicLoadByte returns the current value of cells[i].
func atomicLoadByte(cells []byte, i uint64) byte {
	ptr, shift := wordFor(cells, i)

	return byte(atomic.LoadUint32(ptr) >> shift)
}
