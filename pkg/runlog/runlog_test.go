package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var lineRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} \| `)

func TestLogLinesArePrefixedWithTimestamps(t *testing.T) {
	dir := t.TempDir()

	l, err := Open(dir, "build")
	require.NoError(t, err)

	_, err = fmt.Fprintln(l, "Collection merizrizal.utils 1.2.0 built")
	require.NoError(t, err)

	// Partial writes are buffered until the newline arrives.
	_, err = l.Write([]byte("two "))
	require.NoError(t, err)
	_, err = l.Write([]byte("halves\n"))
	require.NoError(t, err)

	require.NoError(t, l.Finish(nil))

	content, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	for _, line := range lines {
		require.Regexp(t, lineRegex, line)
	}
	require.Contains(t, string(content), "COMMAND [build]")
	require.Contains(t, string(content), strings.Repeat("=", 150))
	require.Contains(t, string(content), "two halves")
	require.Contains(t, string(content), "COMMAND [build] => OK")
	require.Contains(t, string(content), "Run took 0 hours, 0 minutes,")
}

func TestLogRecordsFailure(t *testing.T) {
	dir := t.TempDir()

	l, err := Open(dir, "install")
	require.NoError(t, err)
	require.NoError(t, l.Finish(fmt.Errorf("boom")))

	content, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	require.Contains(t, string(content), "COMMAND [install] => FAILED: boom")
}

func TestLogWriteNeverFailsTheCommand(t *testing.T) {
	dir := t.TempDir()

	l, err := Open(dir, "build")
	require.NoError(t, err)
	require.NoError(t, l.Finish(nil))

	// The file is closed, but a writer attached to the console must keep
	// honoring the io.Writer contract: full count, no error.
	line := []byte("late line\n")
	n, err := l.Write(line)
	require.NoError(t, err)
	require.Equal(t, len(line), n)
}

func TestLogFileNameCarriesCommandAndTimestamp(t *testing.T) {
	dir := t.TempDir()

	l, err := Open(dir, "verify")
	require.NoError(t, err)
	require.NoError(t, l.Finish(nil))

	base := filepath.Base(l.Path())
	require.Regexp(t, `^verify-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}\.log$`, base)
}
