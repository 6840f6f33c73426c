//go:build linux
// +build linux

package cmd

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

// measureHardwareCounters runs f under the kernel instruction counter.
func measureHardwareCounters(f func() error) (report string, err error) {
	var pv *perf.ProfileValue
	if pv, err = perf.CPUInstructions(f); err != nil {
		return
	}
	report = fmt.Sprintf("[%d]\t= CPU instructions (enabled %dns, running %dns)",
		pv.Value, pv.TimeEnabled, pv.TimeRunning)
	return
}
