// Package trace records one line per CSE machine step for the -trace /
// -trace-dump CLI flags. Plain traces go to an io.Writer (typically
// stderr); -trace-dump additionally routes the same lines through an
// lz4.Writer to a compressed sidecar file, useful for archiving traces of
// long recursive runs without the disk cost of raw text.
package trace

import (
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
)

// Tracer writes one formatted line per evaluator step.
type Tracer struct {
	out    io.Writer
	dump   io.WriteCloser
	lz     *lz4.Writer
	sessID string
	step   int
}

// New creates a Tracer that writes plain lines to out, tagging every line
// with sessionID so multiple runs' traces (e.g. successive -watch reruns)
// can be told apart once merged.
func New(out io.Writer, sessionID string) *Tracer {
	return &Tracer{out: out, sessID: sessionID}
}

// WithCompressedDump additionally mirrors every traced line, lz4-compressed,
// to the file at path. Call Close when done to flush and close the file.
func (t *Tracer) WithCompressedDump(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("trace: open dump file: %w", err)
	}
	t.dump = f
	t.lz = lz4.NewWriter(f)
	return nil
}

// Step records one evaluator transition: the kind of control item just
// popped, and the value-stack depth and active environment id as they
// stand before that item executes.
func (t *Tracer) Step(ctrlKind string, stackDepth, envID int) {
	line := fmt.Sprintf("[%s#%05d] %-10s stack=%-4d env=e%d\n", t.sessID, t.step, ctrlKind, stackDepth, envID)
	t.step++
	if t.out != nil {
		io.WriteString(t.out, line)
	}
	if t.lz != nil {
		io.WriteString(t.lz, line)
	}
}

// Close flushes and closes the compressed dump, if one was opened.
func (t *Tracer) Close() error {
	if t.lz == nil {
		return nil
	}
	if err := t.lz.Close(); err != nil {
		return err
	}
	return t.dump.Close()
}
