package executor

import (
	"bytes"
	"strings"

	"github.com/opsfleet/emp/logx"
)

// hostWriter splits a remote command's combined output into lines and
// forwards each one through logx annotated with the host callsign, the
// streaming equivalent of the teacher's combinedWriter in remote/remote.go
// (which buffers and prints once; here each line goes out as it arrives,
// per spec.md §4.5's attached mode).
type hostWriter struct {
	log  *logx.Logger
	host string
	buf  bytes.Buffer
}

func (w *hostWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// ReadString drains the buffer even on error; put the
			// partial line back and wait for more.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.log.Hostf(w.host, "%s", strings.TrimRight(line, "\n"))
	}
	return len(p), nil
}

// flush emits whatever's left in the buffer as a final, unterminated line.
func (w *hostWriter) flush() {
	if w.buf.Len() > 0 {
		w.log.Hostf(w.host, "%s", w.buf.String())
		w.buf.Reset()
	}
}
