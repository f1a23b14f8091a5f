package bitcopy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/bitqueue/bitcopy"
)

func TestPosition_Advance(t *testing.T) {
	req := require.New(t)

	p := bitcopy.Position{}
	p = p.Advance(3)
	req.Equal(bitcopy.Position{ByteOffset: 0, BitOffset: 3}, p)

	p = p.Advance(5)
	req.Equal(bitcopy.Position{ByteOffset: 1, BitOffset: 0}, p)

	p = p.Advance(17)
	req.Equal(bitcopy.Position{ByteOffset: 3, BitOffset: 1}, p)

	req.Equal(uint(25), p.Bits())
}

func TestPosition_Remaining(t *testing.T) {
	req := require.New(t)

	req.Equal(uint(32), bitcopy.Position{}.Remaining(4))
	req.Equal(uint(5), bitcopy.Position{ByteOffset: 3, BitOffset: 3}.Remaining(4))
	req.Equal(uint(0), bitcopy.Position{ByteOffset: 4}.Remaining(4))
	req.Equal(uint(0), bitcopy.Position{ByteOffset: 9}.Remaining(4))
}

func TestPosition_Valid(t *testing.T) {
	req := require.New(t)

	req.True(bitcopy.Position{}.Valid(1))
	req.True(bitcopy.Position{ByteOffset: 1}.Valid(1))
	req.False(bitcopy.Position{ByteOffset: 2}.Valid(1))
	req.False(bitcopy.Position{BitOffset: 8}.Valid(1))
}
