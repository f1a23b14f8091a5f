package bitcopy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/bitqueue/bitcopy"
	"github.com/spacemeshos/bitqueue/shared"
)

// getBit returns logical bit i of buf, where byte n's bit b is bit n*8+b.
func getBit(buf []byte, i uint) byte {
	return (buf[i/8] >> (i % 8)) & 1
}

func setBit(buf []byte, i uint, bit byte) {
	if bit != 0 {
		buf[i/8] |= 1 << (i % 8)
	}
}

func TestCopyBits_InvalidArguments(t *testing.T) {
	req := require.New(t)

	buf := make([]byte, 4)

	_, err := bitcopy.CopyBits(nil, bitcopy.Position{}, buf, bitcopy.Position{}, 1)
	req.ErrorIs(err, shared.ErrInvalidArgument)

	_, err = bitcopy.CopyBits(buf, bitcopy.Position{}, nil, bitcopy.Position{}, 1)
	req.ErrorIs(err, shared.ErrInvalidArgument)

	_, err = bitcopy.CopyBits(buf, bitcopy.Position{}, buf, bitcopy.Position{}, 0)
	req.ErrorIs(err, shared.ErrInvalidArgument)

	_, err = bitcopy.CopyBits(buf, bitcopy.Position{ByteOffset: 5}, buf, bitcopy.Position{}, 1)
	req.ErrorIs(err, shared.ErrInvalidArgument)

	_, err = bitcopy.CopyBits(buf, bitcopy.Position{}, buf, bitcopy.Position{ByteOffset: 5}, 1)
	req.ErrorIs(err, shared.ErrInvalidArgument)

	_, err = bitcopy.CopyBits(buf, bitcopy.Position{BitOffset: 8}, buf, bitcopy.Position{}, 1)
	req.ErrorIs(err, shared.ErrInvalidArgument)

	_, err = bitcopy.CopyBits(buf, bitcopy.Position{}, buf, bitcopy.Position{BitOffset: 8}, 1)
	req.ErrorIs(err, shared.ErrInvalidArgument)

	// More bits than the source buffer can theoretically hold.
	_, err = bitcopy.CopyBits(make([]byte, 8), bitcopy.Position{}, buf, bitcopy.Position{}, 33)
	req.ErrorIs(err, shared.ErrInvalidArgument)
}

func TestCopyBits_InsufficientSpace(t *testing.T) {
	req := require.New(t)

	src := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	dst := []byte{0x00, 0x00}

	_, err := bitcopy.CopyBits(dst, bitcopy.Position{}, src, bitcopy.Position{}, 17)
	req.ErrorIs(err, shared.ErrInsufficientSpace)
	req.Equal([]byte{0x00, 0x00}, dst)

	// An offset destination start shrinks what it can hold.
	_, err = bitcopy.CopyBits(dst, bitcopy.Position{ByteOffset: 1, BitOffset: 3}, src, bitcopy.Position{}, 6)
	req.ErrorIs(err, shared.ErrInsufficientSpace)
	req.Equal([]byte{0x00, 0x00}, dst)
}

func TestCopyBits_SourceClipping(t *testing.T) {
	req := require.New(t)

	src := []byte{0xFF}
	dst := make([]byte, 2)

	// Only 5 bits remain past the source offset; the copy clips silently.
	n, err := bitcopy.CopyBits(dst, bitcopy.Position{}, src, bitcopy.Position{BitOffset: 3}, 8)
	req.NoError(err)
	req.Equal(uint(5), n)
	req.Equal([]byte{0x1F, 0x00}, dst)

	// A fully exhausted source clips to zero without failing.
	n, err = bitcopy.CopyBits(dst, bitcopy.Position{}, src, bitcopy.Position{ByteOffset: 1}, 8)
	req.NoError(err)
	req.Equal(uint(0), n)
}

func TestCopyBits_ORSemantics(t *testing.T) {
	req := require.New(t)

	src := []byte{0x07} // 0b00000111
	dst := []byte{0x80} // 0b10000000

	// Bits outside the copied range keep their previous value.
	n, err := bitcopy.CopyBits(dst, bitcopy.Position{BitOffset: 2}, src, bitcopy.Position{}, 3)
	req.NoError(err)
	req.Equal(uint(3), n)
	req.Equal([]byte{0x9C}, dst) // 0b10011100
}

// Copying at misaligned offsets must produce the identical logical bit
// sequence as a bit-by-bit transfer, for every start-offset combination.
func TestCopyBits_Exhaustive(t *testing.T) {
	req := require.New(t)

	src := []byte{0xC5, 0x3A, 0x9D, 0x60}
	for srcBit := uint8(0); srcBit < 8; srcBit++ {
		for dstBit := uint8(0); dstBit < 8; dstBit++ {
			for count := uint(1); count <= 16; count++ {
				dst := make([]byte, 4)
				n, err := bitcopy.CopyBits(dst, bitcopy.Position{BitOffset: dstBit}, src, bitcopy.Position{BitOffset: srcBit}, count)
				req.NoError(err)
				req.Equal(count, n)

				expected := make([]byte, 4)
				for i := uint(0); i < count; i++ {
					setBit(expected, uint(dstBit)+i, getBit(src, uint(srcBit)+i))
				}
				req.Equal(expected, dst, "srcBit=%d dstBit=%d count=%d", srcBit, dstBit, count)
			}
		}
	}
}

func TestCopyBits_ByteOffsets(t *testing.T) {
	req := require.New(t)

	src := []byte{0x00, 0x00, 0xAB, 0xCD}
	dst := make([]byte, 4)

	n, err := bitcopy.CopyBits(dst, bitcopy.Position{ByteOffset: 1}, src, bitcopy.Position{ByteOffset: 2}, 16)
	req.NoError(err)
	req.Equal(uint(16), n)
	req.Equal([]byte{0x00, 0xAB, 0xCD, 0x00}, dst)
}

func TestClearBits(t *testing.T) {
	req := require.New(t)

	buf := []byte{0xFF, 0xFF, 0xFF}
	bitcopy.ClearBits(buf, bitcopy.Position{BitOffset: 3}, 10)
	req.Equal([]byte{0x07, 0xE0, 0xFF}, buf)

	// Clipped at the end of the buffer.
	buf = []byte{0xFF}
	bitcopy.ClearBits(buf, bitcopy.Position{BitOffset: 4}, 100)
	req.Equal([]byte{0x0F}, buf)

	// A cleared range can be safely recopied into.
	buf = []byte{0xFF, 0xFF}
	bitcopy.ClearBits(buf, bitcopy.Position{BitOffset: 6}, 4)
	n, err := bitcopy.CopyBits(buf, bitcopy.Position{BitOffset: 6}, []byte{0x05}, bitcopy.Position{}, 4)
	req.NoError(err)
	req.Equal(uint(4), n)
	req.Equal(byte(1), getBit(buf, 6))
	req.Equal(byte(0), getBit(buf, 7))
	req.Equal(byte(1), getBit(buf, 8))
	req.Equal(byte(0), getBit(buf, 9))
}
