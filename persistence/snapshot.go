// Package persistence stores queue snapshots on disk, so a queue can survive
// process restarts. A snapshot is an XDR-encoded record carrying the backing
// buffer, both cursors, the buffered bit count and a digest of the buffer.
package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"code.cloudfoundry.org/bytefmt"
	"github.com/nullstyle/go-xdr/xdr3"
	"github.com/spacemeshos/sha256-simd"

	"github.com/spacemeshos/bitqueue/bitcopy"
	"github.com/spacemeshos/bitqueue/queue"
	"github.com/spacemeshos/bitqueue/shared"
)

var (
	ErrSnapshotNotExist = errors.New("snapshot doesn't exist")
	ErrCorrupted        = errors.New("snapshot is corrupted")
)

// record is the on-disk layout of a snapshot.
type record struct {
	BufferSize uint64
	ReadByte   uint64
	ReadBit    uint32
	WriteByte  uint64
	WriteBit   uint32
	ValidBits  uint64
	Digest     [sha256.Size]byte
	Buffer     []byte
}

func SnapshotFilename(datadir string, name string) string {
	return filepath.Join(datadir, name+".bitq")
}

// Save captures the state of q and writes it under the given name in datadir,
// creating the directory if needed. Available disk space is verified first.
func Save(datadir string, name string, q *queue.BitQueue, logger shared.Logger) error {
	s, err := q.Snapshot()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(datadir, shared.OwnerReadWriteExec); err != nil {
		return fmt.Errorf("dir creation failure: %v", err)
	}

	requiredSpace := uint64(len(s.Buffer)) + recordOverhead
	if availableSpace := shared.AvailableSpace(datadir); requiredSpace > availableSpace {
		return fmt.Errorf("not enough disk space. required: %v, available: %v",
			bytefmt.ByteSize(requiredSpace), bytefmt.ByteSize(availableSpace))
	}

	rec := &record{
		BufferSize: uint64(len(s.Buffer)),
		ReadByte:   uint64(s.ReadPos.ByteOffset),
		ReadBit:    uint32(s.ReadPos.BitOffset),
		WriteByte:  uint64(s.WritePos.ByteOffset),
		WriteBit:   uint32(s.WritePos.BitOffset),
		ValidBits:  uint64(s.ValidBits),
		Digest:     sha256.Sum256(s.Buffer),
		Buffer:     s.Buffer,
	}

	var w bytes.Buffer
	if _, err := xdr.Marshal(&w, rec); err != nil {
		return fmt.Errorf("serialization failure: %v", err)
	}

	filename := SnapshotFilename(datadir, name)
	if err := os.WriteFile(filename, w.Bytes(), shared.OwnerReadWrite); err != nil {
		return fmt.Errorf("write to disk failure: %v", err)
	}

	logger.Info("saved queue snapshot: %v (%d buffered bits)", filename, s.ValidBits)
	return nil
}

// Load reads the named snapshot from datadir, verifies its integrity and
// reconstructs the queue it captured.
func Load(datadir string, name string, logger shared.Logger) (*queue.BitQueue, error) {
	filename := SnapshotFilename(datadir, name)
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotExist
		}
		return nil, fmt.Errorf("read file failure: %v", err)
	}

	rec := &record{}
	if _, err := xdr.Unmarshal(bytes.NewReader(data), rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	if uint64(len(rec.Buffer)) != rec.BufferSize {
		return nil, fmt.Errorf("%w: buffer size mismatch", ErrCorrupted)
	}
	if sha256.Sum256(rec.Buffer) != rec.Digest {
		return nil, fmt.Errorf("%w: digest mismatch", ErrCorrupted)
	}

	q, err := queue.FromSnapshot(&queue.Snapshot{
		Buffer:    rec.Buffer,
		ReadPos:   bitcopy.Position{ByteOffset: uint(rec.ReadByte), BitOffset: uint8(rec.ReadBit)},
		WritePos:  bitcopy.Position{ByteOffset: uint(rec.WriteByte), BitOffset: uint8(rec.WriteBit)},
		ValidBits: uint(rec.ValidBits),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("loaded queue snapshot: %v (%d buffered bits)", filename, rec.ValidBits)
	return q, nil
}

// recordOverhead is a conservative bound on the XDR framing around the buffer.
const recordOverhead = 128
