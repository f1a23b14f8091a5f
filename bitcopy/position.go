package bitcopy

// BitsPerByte is the number of bits in a byte.
const BitsPerByte = 8

// Position addresses a single bit within a byte buffer as a
// (byte offset, bit offset) pair, where the bit offset counts from the
// least-significant bit.
type Position struct {
	ByteOffset uint
	BitOffset  uint8
}

// Bits returns the absolute bit index of the position.
func (p Position) Bits() uint {
	return p.ByteOffset*BitsPerByte + uint(p.BitOffset)
}

// Advance returns the position moved forward by the given number of bits,
// rolling over to the next byte whenever the bit offset reaches BitsPerByte.
func (p Position) Advance(numBits uint) Position {
	total := uint(p.BitOffset) + numBits
	return Position{
		ByteOffset: p.ByteOffset + total/BitsPerByte,
		BitOffset:  uint8(total % BitsPerByte),
	}
}

// Remaining returns the number of bits between the position and the end of a
// buffer of the given byte length.
func (p Position) Remaining(numBytes uint) uint {
	if p.ByteOffset >= numBytes {
		return 0
	}
	return (numBytes-p.ByteOffset)*BitsPerByte - uint(p.BitOffset)
}

// Valid indicates whether the position may address a buffer of the given byte
// length. The one-past-the-end byte offset is considered valid, as it is the
// natural resting point of a cursor which consumed the entire buffer.
func (p Position) Valid(numBytes uint) bool {
	return p.ByteOffset <= numBytes && p.BitOffset < BitsPerByte
}
