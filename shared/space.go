package shared

import (
	"github.com/ricochet2200/go-disk-usage/du"
)

// AvailableSpace returns the number of bytes available on the volume
// holding the given path.
func AvailableSpace(path string) uint64 {
	usage := du.NewDiskUsage(path)
	return usage.Available()
}
