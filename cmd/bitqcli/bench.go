package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/bitqueue/bitcopy"
)

// benchCmd measures the transfer primitive over every source/destination
// sub-byte offset combination, at several transfer sizes.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "benchmark misaligned bit transfers",
	RunE: func(cmd *cobra.Command, args []string) error {
		sizes := []uint{1 << 10, 1 << 16, 1 << 20} // bits

		data := make([][]string, 0, len(sizes))
		for _, numBits := range sizes {
			numBytes := numBits/bitcopy.BitsPerByte + 2
			src := make([]byte, numBytes)
			dst := make([]byte, numBytes)
			for i := range src {
				src[i] = byte(i)
			}

			var copies int
			t := time.Now()
			for dstBit := uint8(0); dstBit < bitcopy.BitsPerByte; dstBit++ {
				for srcBit := uint8(0); srcBit < bitcopy.BitsPerByte; srcBit++ {
					zero(dst)
					if _, err := bitcopy.CopyBits(dst, bitcopy.Position{BitOffset: dstBit}, src, bitcopy.Position{BitOffset: srcBit}, numBits); err != nil {
						return err
					}
					copies++
				}
			}
			elapsed := time.Since(t)

			moved := uint64(copies) * uint64(numBits) / bitcopy.BitsPerByte
			throughput := float64(moved) / elapsed.Seconds()
			data = append(data, []string{
				strconv.FormatUint(uint64(numBits), 10),
				strconv.Itoa(copies),
				elapsed.Round(time.Microsecond).String(),
				bytefmt.ByteSize(uint64(throughput)) + "/s",
			})
		}

		report([]string{"bits", "copies", "elapsed", "throughput"}, data)
		return nil
	},
}

func report(header []string, data [][]string) {
	fmt.Printf("\n\nBENCHMARKS: all %dx%d offset combinations per row\n", bitcopy.BitsPerByte, bitcopy.BitsPerByte)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetBorder(true)
	table.AppendBulk(data)
	table.Render()
}
