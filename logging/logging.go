package logging

import (
	"fmt"
	"log"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
)

type Flag int

const (
	Nil Flag = iota
	Performance
	Debug
)

// This is handled this way so that GlobalConfig doesn't need to be literally
// every function in the project.
var (
	Mode Flag = Nil
)

// ParseFlag converts the value of a LogMode config variable to a Flag.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nil", "none":
		return Nil, nil
	case "performance":
		return Performance, nil
	case "debug":
		return Debug, nil
	}
	return Nil, fmt.Errorf("The 'LogMode' variable is set to '%s', which "+
		"I don't recognize.", s)
}

func (f Flag) String() string {
	switch f {
	case Performance:
		return "performance"
	case Debug:
		return "debug"
	}
	return "nil"
}

// Perff logs a message if the program is running in Performance mode or
// higher. Debug mode implies Performance mode.
func Perff(format string, args ...interface{}) {
	if Mode >= Performance {
		log.Printf(format, args...)
	}
}

// Debugf logs a message only in Debug mode.
func Debugf(format string, args ...interface{}) {
	if Mode == Debug {
		log.Printf(format, args...)
	}
}

// MemString returns a string containing various statistics on the current
// memory usage of lenscone.
func MemString() string {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf(
		"Alloc - %s; Sys - %s; Integrated - %s",
		humanize.IBytes(ms.Alloc), humanize.IBytes(ms.Sys),
		humanize.IBytes(ms.TotalAlloc),
	)
}

// SizeString formats a byte count for log lines about files and maps.
func SizeString(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
