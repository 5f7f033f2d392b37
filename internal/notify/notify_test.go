package notify

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalNotifierFormat(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminalNotifierWithWriter(&buf)

	n.Notify("Opened position: ABC @ ₹108.00, Qty: 92")

	line := buf.String()
	require.Regexp(t, regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] `), line,
		"every event line carries an IST wall-clock prefix")
	assert.Contains(t, line, "Opened position: ABC @ ₹108.00, Qty: 92")
	assert.Equal(t, byte('\n'), line[len(line)-1])
}

func TestTerminalNotifierAppendsLines(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminalNotifierWithWriter(&buf)

	n.Notify("first")
	n.Notify("second")

	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestNopDiscards(t *testing.T) {
	var n Notifier = Nop{}
	n.Notify("dropped")
}
