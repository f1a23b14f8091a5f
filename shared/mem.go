package shared

import (
	"fmt"

	"code.cloudfoundry.org/bytefmt"
	"github.com/shirou/gopsutil/mem"
)

// AvailableMemory returns the number of bytes of memory currently available
// for allocation, or 0 if the amount cannot be determined.
func AvailableMemory() uint64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.Available
}

// EnsureMemory indicates whether an allocation of the given size can be
// expected to succeed, returning ErrAllocationFailure if it cannot.
// An indeterminate amount of available memory is not considered a failure.
func EnsureMemory(numBytes uint64) error {
	available := AvailableMemory()
	if available != 0 && numBytes > available {
		return fmt.Errorf("%w: not enough memory. required: %v, available: %v",
			ErrAllocationFailure, bytefmt.ByteSize(numBytes), bytefmt.ByteSize(available))
	}

	return nil
}
