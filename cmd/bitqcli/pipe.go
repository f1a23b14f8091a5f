package main

import (
	"bytes"
	"fmt"
	"os"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/bitqueue/bitcopy"
	"github.com/spacemeshos/bitqueue/config"
	"github.com/spacemeshos/bitqueue/queue"
	"github.com/spacemeshos/bitqueue/shared"
)

// pipeCmd streams each input file through its own bit queue in ChunkBits-sized
// transfers and writes the result next to it. Queues are single-owner, so each
// file gets a dedicated queue driven by a dedicated goroutine.
var pipeCmd = &cobra.Command{
	Use:   "pipe <file>...",
	Short: "stream files through bit queues in bit-granular chunks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lg := zapLog{logger.Sugar()}

		eg, _ := errgroup.WithContext(cmd.Context())
		for _, path := range args {
			path := path
			eg.Go(func() error {
				return pipeFile(path, cfg, lg)
			})
		}
		return eg.Wait()
	},
}

func pipeFile(path string, cfg *config.Config, logger shared.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%v is empty", path)
	}

	q, err := queue.New(cfg.BufferSize)
	if err != nil {
		return err
	}
	defer q.Close()

	out := make([]byte, len(data))
	totalBits := uint(len(data)) * bitcopy.BitsPerByte
	scratch := make([]byte, (cfg.ChunkBits+bitcopy.BitsPerByte-1)/bitcopy.BitsPerByte)

	var writtenBits, readBits uint
	for readBits < totalBits {
		// Fill the ring for as long as it has room and bits remain, then
		// drain; a poll loop, as the queue never blocks.
		for writtenBits < totalBits {
			chunk := totalBits - writtenBits
			if chunk > cfg.ChunkBits {
				chunk = cfg.ChunkBits
			}
			if ok, err := q.HasSpace(chunk); err != nil {
				return err
			} else if !ok {
				break
			}

			zero(scratch)
			if _, err := bitcopy.CopyBits(scratch, bitcopy.Position{}, data, bitcopy.Position{}.Advance(writtenBits), chunk); err != nil {
				return err
			}
			if _, err := q.WriteBits(scratch, chunk); err != nil {
				return err
			}
			writtenBits += chunk
		}

		chunk := writtenBits - readBits
		if chunk > cfg.ChunkBits {
			chunk = cfg.ChunkBits
		}

		zero(scratch)
		if _, err := q.ReadBits(scratch, chunk); err != nil {
			return err
		}
		if _, err := bitcopy.CopyBits(out, bitcopy.Position{}.Advance(readBits), scratch, bitcopy.Position{}, chunk); err != nil {
			return err
		}
		readBits += chunk
	}

	if !bytes.Equal(out, data) {
		return fmt.Errorf("%v: piped data differs from input", path)
	}

	outPath := path + ".out"
	if err := os.WriteFile(outPath, out, shared.OwnerReadWrite); err != nil {
		return err
	}

	logger.Info("piped %v (%v) through a %v ring in %d-bit chunks -> %v",
		path, bytefmt.ByteSize(uint64(len(data))), bytefmt.ByteSize(uint64(cfg.BufferSize)), cfg.ChunkBits, outPath)
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
