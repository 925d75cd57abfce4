package logx

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/exp/slog"
)

func TestSetAndRestore(t *testing.T) {
	var buf bytes.Buffer
	Set(New(&buf, slog.LevelDebug))
	defer Set(nil)

	L().Debug("clock frozen", "main_hz", 8_000_000)
	if !strings.Contains(buf.String(), "main_hz=8000000") {
		t.Fatalf("record not written: %q", buf.String())
	}

	Set(nil)
	buf.Reset()
	L().Error("dropped")
	if buf.Len() != 0 {
		t.Fatalf("discard logger wrote %q", buf.String())
	}
}
