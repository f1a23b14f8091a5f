// Package bitcopy provides the primitive for moving bit ranges between byte
// buffers at independent, possibly misaligned, bit offsets, following the LSB
// pattern, where least-significant bits are transferred first within each byte.
package bitcopy

import (
	"fmt"

	"github.com/spacemeshos/bitqueue/shared"
)

// CopyBits copies up to bitCount bits from src, starting at srcStart, into
// dst, starting at dstStart, and returns the number of bits actually copied.
//
// If dst cannot hold bitCount bits starting at dstStart, the copy fails with
// shared.ErrInsufficientSpace and dst is left untouched. If src cannot supply
// bitCount bits starting at srcStart, the copy is silently clipped to the bits
// available; a short count with a nil error is not a failure.
//
// Bits are ORed into dst. Bits of a partially-touched destination byte which
// are outside the copied range keep their previous value, so callers reusing
// destination bytes must clear the target range first (see ClearBits).
func CopyBits(dst []byte, dstStart Position, src []byte, srcStart Position, bitCount uint) (uint, error) {
	if dst == nil || src == nil {
		return 0, fmt.Errorf("%w: nil buffer", shared.ErrInvalidArgument)
	}
	if bitCount == 0 {
		return 0, fmt.Errorf("%w: zero bit count", shared.ErrInvalidArgument)
	}
	if !dstStart.Valid(uint(len(dst))) || !srcStart.Valid(uint(len(src))) {
		return 0, fmt.Errorf("%w: start position out of range", shared.ErrInvalidArgument)
	}
	if bitCount > uint(len(src))*BitsPerByte {
		return 0, fmt.Errorf("%w: bit count (%d) exceeds source capacity (%d)",
			shared.ErrInvalidArgument, bitCount, uint(len(src))*BitsPerByte)
	}
	if avail := dstStart.Remaining(uint(len(dst))); bitCount > avail {
		return 0, fmt.Errorf("%w: %d bits requested, %d available past the destination offset",
			shared.ErrInsufficientSpace, bitCount, avail)
	}

	// Clip to what the source can actually supply.
	if avail := srcStart.Remaining(uint(len(src))); bitCount > avail {
		bitCount = avail
	}

	for copied := uint(0); copied < bitCount; {
		// The largest run which crosses a byte boundary on neither side.
		run := uint(BitsPerByte - dstStart.BitOffset)
		if r := uint(BitsPerByte - srcStart.BitOffset); r < run {
			run = r
		}
		if r := bitCount - copied; r < run {
			run = r
		}

		mask := byte(1<<run - 1)
		dst[dstStart.ByteOffset] |= ((src[srcStart.ByteOffset] >> srcStart.BitOffset) & mask) << dstStart.BitOffset

		dstStart = dstStart.Advance(run)
		srcStart = srcStart.Advance(run)
		copied += run
	}

	return bitCount, nil
}

// ClearBits zeroes bitCount bits of dst starting at the given position,
// clipped to the end of dst. It is the companion to CopyBits for callers that
// reuse destination bytes.
func ClearBits(dst []byte, start Position, bitCount uint) {
	if avail := start.Remaining(uint(len(dst))); bitCount > avail {
		bitCount = avail
	}

	for cleared := uint(0); cleared < bitCount; {
		run := uint(BitsPerByte - start.BitOffset)
		if r := bitCount - cleared; r < run {
			run = r
		}

		dst[start.ByteOffset] &^= byte(1<<run-1) << start.BitOffset

		start = start.Advance(run)
		cleared += run
	}
}
