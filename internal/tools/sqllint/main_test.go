package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInlineQueriesCarryUniqueMarkers(t *testing.T) {
	violations, err := lintPaths([]string{filepath.Join("..", "..", "sqlinline")})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	for _, v := range violations {
		t.Errorf("%s:%d %s (%s)", v.file, v.line, v.message, v.name)
	}
}

func TestLintFlagsViolations(t *testing.T) {
	dir := t.TempDir()
	src := "package q\n\n" +
		"const QMissing = `\nSELECT 1`\n\n" +
		"const QFirst = `--sql 0b6a3f6e-6a4e-4f7b-9a57-4d2f6a1d9c10\nSELECT 1`\n\n" +
		"const QDup = `--sql 0b6a3f6e-6a4e-4f7b-9a57-4d2f6a1d9c10\nSELECT 2`\n\n" +
		"const Greeting = \"hello\"\n"
	if err := os.WriteFile(filepath.Join(dir, "q.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	violations, err := lintPaths([]string{dir})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("violations = %+v, want 2", violations)
	}
	if violations[0].name != "QMissing" || !strings.Contains(violations[0].message, "missing") {
		t.Fatalf("first violation = %+v", violations[0])
	}
	if violations[1].name != "QDup" || !strings.Contains(violations[1].message, "QFirst") {
		t.Fatalf("second violation = %+v", violations[1])
	}
}
