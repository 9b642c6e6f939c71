package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestExitOnLevel(t *testing.T) {
	var buf bytes.Buffer
	code := -1
	log := slog.New(&ExitOnLevel{
		lvl:     LevelFatal,
		exit:    func(c int) { code = c },
		Handler: newHandler(&buf, slog.LevelInfo),
	}).With(slog.String("cmd", "serve"))

	log.Error("recoverable", Error(errors.New("boom")))
	if code != -1 {
		t.Fatal("error level should not exit")
	}
	Fatal(log, "cannot start")
	if code != 1 {
		t.Errorf("exit code = %d", code)
	}

	out := buf.String()
	if !strings.Contains(out, "err=boom") || !strings.Contains(out, "level=FATAL") || !strings.Contains(out, "cmd=serve") {
		t.Errorf("output = %q", out)
	}
}

func TestErrorNil(t *testing.T) {
	if a := Error(nil); a.Value.String() != "nil" {
		t.Errorf("attr = %v", a)
	}
}
