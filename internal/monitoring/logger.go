// Package monitoring holds the diagnostic logger shared by the dataset
// pipeline packages.
package monitoring

import (
	"fmt"
	"log"
)

// Logf is the package-level diagnostic logger used by the normalizer,
// balancer, pipeline and store. It defaults to log.Printf. Replace it with
// SetLogger to capture or mute pipeline output.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces Logf. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// CaptureLogs redirects Logf into a slice until the returned restore func is
// called. Intended for tests.
func CaptureLogs() (lines *[]string, restore func()) {
	original := Logf
	var captured []string
	Logf = func(format string, v ...interface{}) {
		captured = append(captured, fmt.Sprintf(format, v...))
	}
	return &captured, func() { Logf = original }
}
