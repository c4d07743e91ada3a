// Package logger keeps log output off the control loop. Lines are queued and
// written by a background goroutine; when the queue is full they are dropped.
package logger

import (
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

var (
	logChan = make(chan []any, 16)
	dropped atomic.Uint32
)

// Log queues args for output. Byte slices are printed as hex.
func Log(args ...any) {
	select {
	case logChan <- args:
	default:
		dropped.Add(1)
	}
}

// Dropped reports how many lines were discarded because the queue was full.
func Dropped() uint32 { return dropped.Load() }

func format(args []any) string {
	var sb strings.Builder
	for i, v := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch vv := v.(type) {
		case []byte:
			sb.WriteString(hex.EncodeToString(vv))
		default:
			fmt.Fprint(&sb, v)
		}
	}
	return sb.String()
}

func init() {
	go func() {
		for v := range logChan {
			log.Print(format(v))
		}
	}()
}
