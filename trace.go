package overload

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

const (
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorReset = "\x1b[0m"
)

// tracer writes a per-call resolution trace. A nil tracer is a no-op, so the
// hot path pays nothing when tracing is off.
type tracer struct {
	w     io.Writer
	color bool
	name  string
}

func (r *Registry) tracer(name string, args []Value, kwargs map[string]Value) *tracer {
	if r.trace == nil {
		return nil
	}
	t := &tracer{w: r.trace, color: isTerminal(r.trace), name: name}
	fmt.Fprintf(t.w, "dispatch %s(%s)\n", name, formatCall(args, kwargs))
	return t
}

func (t *tracer) eliminated(c candidate, reason string) {
	if t == nil {
		return
	}
	if t.color {
		fmt.Fprintf(t.w, "  %s- %s: %s%s\n", colorRed, describeCandidate(c), reason, colorReset)
		return
	}
	fmt.Fprintf(t.w, "  - %s: %s\n", describeCandidate(c), reason)
}

func (t *tracer) survived(c candidate) {
	if t == nil {
		return
	}
	if t.color {
		fmt.Fprintf(t.w, "  %s+ %s: survives%s\n", colorGreen, describeCandidate(c), colorReset)
		return
	}
	fmt.Fprintf(t.w, "  + %s: survives\n", describeCandidate(c))
}

func (t *tracer) outcome(msg string) {
	if t == nil {
		return
	}
	fmt.Fprintf(t.w, "  => %s\n", msg)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
