// Package queue implements a bit-addressable circular buffer. Producers write
// an arbitrary number of bits, not necessarily byte-aligned, and consumers
// read them back in arbitrary bit-count chunks, independent of how they were
// written. Bits are packed LSB-first within each byte of the backing buffer.
//
// A queue has a single logical owner; concurrent access must be serialized
// externally. No operation blocks: when the current fill level cannot satisfy
// a request, shared.ErrRetry is returned immediately, making the queue
// suitable for caller-driven poll loops.
package queue

import (
	"fmt"

	"github.com/spacemeshos/bitqueue/bitcopy"
	"github.com/spacemeshos/bitqueue/shared"
)

// Allocations below this size skip the available-memory check.
const allocCheckThreshold = 1 << 20

// BitQueue is a fixed-size circular buffer tracking a read cursor, a write
// cursor and the number of buffered unread bits. The two cursors chase each
// other around the same ring; capacity checks prevent the write cursor from
// lapping unread data and prevent reads past the data frontier.
type BitQueue struct {
	buf   []byte
	owned bool

	rpos      bitcopy.Position
	wpos      bitcopy.Position
	validBits uint
}

// New creates a queue over a fresh zeroed buffer of byteCount bytes, owned by
// the queue. The queue starts empty.
func New(byteCount uint) (*BitQueue, error) {
	if byteCount == 0 {
		return nil, fmt.Errorf("%w: zero buffer size", shared.ErrInvalidArgument)
	}
	if byteCount >= allocCheckThreshold {
		if err := shared.EnsureMemory(uint64(byteCount)); err != nil {
			return nil, err
		}
	}

	return &BitQueue{
		buf:   make([]byte, byteCount),
		owned: true,
	}, nil
}

// Wrap creates a queue over an existing, already-populated buffer. The entire
// content is treated as valid unread data, ready for consumption. If
// takeOwnership is set the queue considers the buffer its own and scrubs it
// on Close; otherwise the caller retains ownership.
func Wrap(buf []byte, takeOwnership bool) (*BitQueue, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: nil or empty buffer", shared.ErrInvalidArgument)
	}

	return &BitQueue{
		buf:       buf,
		owned:     takeOwnership,
		validBits: uint(len(buf)) * bitcopy.BitsPerByte,
	}, nil
}

// WriteBits transfers bitCount bits from src into the queue at the write
// cursor, wrapping around the end of the backing buffer as needed. On success
// the returned count equals bitCount. If the queue cannot currently hold
// bitCount more bits, shared.ErrRetry is returned and the queue is unchanged.
//
// A transfer failure mid-way aborts with the bits already moved committed;
// the returned count reflects exactly the bits transferred before the error.
func (q *BitQueue) WriteBits(src []byte, bitCount uint) (uint, error) {
	if err := q.checkTransfer(src, bitCount); err != nil {
		return 0, err
	}
	if ok, _ := q.HasSpace(bitCount); !ok {
		return 0, fmt.Errorf("%w: %d bits requested, %d free", shared.ErrRetry, bitCount, q.Free())
	}

	srcPos := bitcopy.Position{}
	var done uint
	for done < bitCount {
		// Cap each transfer at the ring end, so that the wrap is taken
		// before the destination side of the copy runs out.
		chunk := bitCount - done
		if tail := q.wpos.Remaining(uint(len(q.buf))); chunk > tail {
			chunk = tail
		}

		// The target range holds no unread data, but may hold stale bits
		// from a previous lap; the copy ORs bits in, so clear it first.
		bitcopy.ClearBits(q.buf, q.wpos, chunk)

		n, err := bitcopy.CopyBits(q.buf, q.wpos, src, srcPos, chunk)
		if err != nil {
			return done, err
		}
		if n == 0 {
			return done, fmt.Errorf("%w: transfer made no progress", shared.ErrRetry)
		}

		srcPos = srcPos.Advance(n)
		q.wpos = q.wpos.Advance(n)
		if q.wpos.ByteOffset == uint(len(q.buf)) {
			q.wpos = bitcopy.Position{}
		}
		q.validBits += n
		done += n
	}

	return done, nil
}

// ReadBits transfers bitCount bits from the queue at the read cursor into
// dst, wrapping around the end of the backing buffer as needed. On success
// the returned count equals bitCount. If fewer than bitCount bits are
// currently buffered, shared.ErrRetry is returned and the queue is unchanged.
//
// Bits are ORed into dst; callers reusing dst must pre-clear the bytes they
// intend to fully overwrite.
func (q *BitQueue) ReadBits(dst []byte, bitCount uint) (uint, error) {
	if err := q.checkTransfer(dst, bitCount); err != nil {
		return 0, err
	}
	if ok, _ := q.HasData(bitCount); !ok {
		return 0, fmt.Errorf("%w: %d bits requested, %d buffered", shared.ErrRetry, bitCount, q.Buffered())
	}

	dstPos := bitcopy.Position{}
	var done uint
	for done < bitCount {
		// The copy clips at the ring end and reports a short count; the
		// next iteration resumes from the wrapped read cursor.
		n, err := bitcopy.CopyBits(dst, dstPos, q.buf, q.rpos, bitCount-done)
		if err != nil {
			return done, err
		}
		if n == 0 {
			return done, fmt.Errorf("%w: transfer made no progress", shared.ErrRetry)
		}

		dstPos = dstPos.Advance(n)
		q.rpos = q.rpos.Advance(n)
		if q.rpos.ByteOffset == uint(len(q.buf)) {
			q.rpos = bitcopy.Position{}
		}
		q.validBits -= n
		done += n
	}

	return done, nil
}

// HasSpace indicates whether the queue can currently hold bitCount more bits.
func (q *BitQueue) HasSpace(bitCount uint) (bool, error) {
	if q == nil {
		return false, fmt.Errorf("%w: nil queue", shared.ErrInvalidArgument)
	}
	return q.Cap()-q.validBits >= bitCount, nil
}

// HasData indicates whether the queue currently buffers at least bitCount bits.
func (q *BitQueue) HasData(bitCount uint) (bool, error) {
	if q == nil {
		return false, fmt.Errorf("%w: nil queue", shared.ErrInvalidArgument)
	}
	return q.validBits >= bitCount, nil
}

// Cap returns the queue's total capacity in bits.
func (q *BitQueue) Cap() uint {
	return uint(len(q.buf)) * bitcopy.BitsPerByte
}

// BufferSize returns the backing buffer's size in bytes.
func (q *BitQueue) BufferSize() uint {
	return uint(len(q.buf))
}

// Buffered returns the number of bits currently holding unread data.
func (q *BitQueue) Buffered() uint {
	return q.validBits
}

// Free returns the number of bits the queue can accept before filling up.
func (q *BitQueue) Free() uint {
	return q.Cap() - q.validBits
}

// Close releases the backing buffer. An owned buffer is scrubbed; a borrowed
// one is left intact for its owner. Closing an already-closed queue fails
// with shared.ErrInvalidArgument.
func (q *BitQueue) Close() error {
	if q == nil || q.buf == nil {
		return fmt.Errorf("%w: queue already closed or never valid", shared.ErrInvalidArgument)
	}

	if q.owned {
		for i := range q.buf {
			q.buf[i] = 0
		}
	}
	q.buf = nil
	q.rpos = bitcopy.Position{}
	q.wpos = bitcopy.Position{}
	q.validBits = 0

	return nil
}

func (q *BitQueue) checkTransfer(buf []byte, bitCount uint) error {
	if q == nil {
		return fmt.Errorf("%w: nil queue", shared.ErrInvalidArgument)
	}
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", shared.ErrInvalidArgument)
	}
	if bitCount == 0 {
		return fmt.Errorf("%w: zero bit count", shared.ErrInvalidArgument)
	}
	if uint(len(buf))*bitcopy.BitsPerByte < bitCount {
		return fmt.Errorf("%w: buffer holds %d bits, %d requested",
			shared.ErrInvalidArgument, uint(len(buf))*bitcopy.BitsPerByte, bitCount)
	}
	if q.buf == nil {
		return fmt.Errorf("%w: queue is closed", shared.ErrInvalidArgument)
	}
	if bitCount > q.Cap() {
		return fmt.Errorf("%w: %d bits requested, capacity is %d", shared.ErrMessageTooLarge, bitCount, q.Cap())
	}
	return nil
}
