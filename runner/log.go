package runner

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
)

// Log writes elapsed-time-prefixed progress lines to stderr, or discards
// them entirely when quiet. Grounded on the teacher's own plain
// fmt.Printf progress lines (see examples/*/main.go), generalised to a
// reusable type since this module's pipeline has many more stages worth
// narrating than a single example program does.
//
// Each Log carries a short per-run correlation id so that progress lines
// from concurrent tile loads across separate invocations (e.g. two runs
// piping tiles through the same terminal) can still be told apart.
type Log struct {
	out   io.Writer
	start time.Time
	runID string
}

// NewLog returns a Log that writes to stderr when show is true, or
// discards all output otherwise.
func NewLog(show bool) *Log {
	l := &Log{start: time.Now(), runID: uuid.NewString()[:8]}
	if show {
		l.out = os.Stderr
	} else {
		l.out = io.Discard
	}
	return l
}

// Line prints args space-joined.
func (l *Log) Line(args ...interface{}) {
	fmt.Fprintln(l.out, args...)
}

var countSuffixes = []string{"", "k", "M", "G"}

// Count formats a quantity with its own scaled decimal suffix and a
// pluralised unit name, e.g. Count(12400, "point") -> "12.4k points".
func Count(value int, name string) string {
	decimal := float64(value)
	suffix := 0
	for decimal >= 999.95 && suffix+1 < len(countSuffixes) {
		decimal *= 0.001
		suffix++
	}
	plural := "s"
	if value == 1 {
		plural = ""
	}
	precision := 0
	if value >= 1000 {
		precision = 1
	}
	return fmt.Sprintf("%.*f%s %s%s", precision, decimal, countSuffixes[suffix], name, plural)
}

// Time prefixes args with the run id and the elapsed time since the Log
// was created, in "[id] Xm00s: " or "[id] X.Xs: " form.
func (l *Log) Time(args ...interface{}) {
	elapsed := time.Since(l.start)
	minutes := int(elapsed.Minutes())
	prefix := ""
	if minutes > 0 {
		seconds := elapsed.Seconds() - float64(minutes)*60
		prefix = fmt.Sprintf("%dm%02.0fs: ", minutes, math.Round(seconds))
	} else {
		prefix = fmt.Sprintf("%.1fs: ", elapsed.Seconds())
	}
	fmt.Fprintf(l.out, "[%s] %s", l.runID, prefix)
	l.Line(args...)
}
