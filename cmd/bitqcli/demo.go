package main

import (
	"github.com/spf13/cobra"

	"github.com/spacemeshos/bitqueue/persistence"
	"github.com/spacemeshos/bitqueue/queue"
)

// demoCmd cross-feeds two queues: one wrapping a pre-populated borrowed
// buffer, one owning a fresh buffer, then runs a snapshot round-trip through
// the datadir.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "run the cross-feed demonstration scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		lg := zapLog{logger.Sugar()}

		buffer := []byte{0xAA, 0xAA}
		borrowed, err := queue.Wrap(buffer, false)
		if err != nil {
			return err
		}
		owned, err := queue.New(2)
		if err != nil {
			return err
		}

		if _, err := owned.WriteBits(buffer, 16); err != nil {
			return err
		}

		res := make([]byte, 2)
		if _, err := borrowed.ReadBits(res, 8); err != nil {
			return err
		}
		lg.Info("m1 = %d", res[0])

		if _, err := borrowed.WriteBits([]byte{0x0A}, 8); err != nil {
			return err
		}

		res = make([]byte, 2)
		if _, err := owned.ReadBits(res, 5); err != nil {
			return err
		}
		lg.Info("m2 = %d", res[0])

		res = make([]byte, 2)
		if _, err := owned.ReadBits(res, 1); err != nil {
			return err
		}
		lg.Info("m3 = %d", res[0])

		// Snapshot round-trip: the restored queue resumes where owned left off.
		if err := persistence.Save(cfg.DataDir, "demo", owned, lg); err != nil {
			return err
		}
		restored, err := persistence.Load(cfg.DataDir, "demo", lg)
		if err != nil {
			return err
		}
		res = make([]byte, 2)
		if _, err := restored.ReadBits(res, 10); err != nil {
			return err
		}
		lg.Info("restored queue, next 10 bits = %#02x %#02x", res[0], res[1])

		for _, q := range []*queue.BitQueue{borrowed, owned, restored} {
			if err := q.Close(); err != nil {
				return err
			}
		}
		return nil
	},
}
