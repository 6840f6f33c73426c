//go:build !linux
// +build !linux

package cmd

import "fmt"

func measureHardwareCounters(f func() error) (report string, err error) {
	err = fmt.Errorf("hardware performance counters are only available on linux")
	return
}
