package queue

import (
	"fmt"

	"github.com/spacemeshos/bitqueue/bitcopy"
	"github.com/spacemeshos/bitqueue/shared"
)

// Snapshot captures the full state of a queue: a copy of the backing buffer,
// both cursors and the buffered bit count. It is the unit of persistence.
type Snapshot struct {
	Buffer    []byte
	ReadPos   bitcopy.Position
	WritePos  bitcopy.Position
	ValidBits uint
}

// Snapshot returns a copy of the queue's current state. The queue itself is
// not modified and the returned buffer is independent of the live one.
func (q *BitQueue) Snapshot() (*Snapshot, error) {
	if q == nil || q.buf == nil {
		return nil, fmt.Errorf("%w: queue is closed or nil", shared.ErrInvalidArgument)
	}

	buf := make([]byte, len(q.buf))
	copy(buf, q.buf)

	return &Snapshot{
		Buffer:    buf,
		ReadPos:   q.rpos,
		WritePos:  q.wpos,
		ValidBits: q.validBits,
	}, nil
}

// FromSnapshot reconstructs a queue from a previously captured snapshot. The
// queue takes ownership of a copy of the snapshot's buffer. The snapshot is
// validated: cursors must address the buffer and the buffered bit count must
// match the forward distance between them around the ring.
func FromSnapshot(s *Snapshot) (*BitQueue, error) {
	if s == nil || len(s.Buffer) == 0 {
		return nil, fmt.Errorf("%w: nil or empty snapshot", shared.ErrInvalidArgument)
	}

	size := uint(len(s.Buffer))
	capBits := size * bitcopy.BitsPerByte
	if s.ReadPos.ByteOffset >= size || s.ReadPos.BitOffset >= bitcopy.BitsPerByte {
		return nil, fmt.Errorf("%w: read cursor out of range", shared.ErrInvalidArgument)
	}
	if s.WritePos.ByteOffset >= size || s.WritePos.BitOffset >= bitcopy.BitsPerByte {
		return nil, fmt.Errorf("%w: write cursor out of range", shared.ErrInvalidArgument)
	}
	if s.ValidBits > capBits {
		return nil, fmt.Errorf("%w: %d buffered bits exceed capacity %d",
			shared.ErrInvalidArgument, s.ValidBits, capBits)
	}
	// The coinciding-cursor case is ambiguous (empty or full); any other
	// mismatch between count and cursor distance means a corrupt snapshot.
	dist := (s.WritePos.Bits() + capBits - s.ReadPos.Bits()) % capBits
	if s.ValidBits%capBits != dist {
		return nil, fmt.Errorf("%w: buffered bit count (%d) inconsistent with cursors",
			shared.ErrInvalidArgument, s.ValidBits)
	}

	buf := make([]byte, size)
	copy(buf, s.Buffer)

	return &BitQueue{
		buf:       buf,
		owned:     true,
		rpos:      s.ReadPos,
		wpos:      s.WritePos,
		validBits: s.ValidBits,
	}, nil
}
