package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to resolve, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestCheckBinariesUsesLookPath(t *testing.T) {
	orig := lookPath
	lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	t.Cleanup(func() { lookPath = orig })

	results := CheckBinaries([]Requirement{{Name: "uvx", Command: "uvx"}})
	if results[0].Path != "/usr/bin/uvx" {
		t.Fatalf("path = %q", results[0].Path)
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "FFmpeg", Available: true},
		{Name: "uvx", Detail: `binary "uvx" not found`},
		{Name: "Extra", Optional: true, Detail: "absent"},
	}
	err := MissingRequired(statuses)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "uvx") || strings.Contains(err.Error(), "Extra") {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := MissingRequired(statuses[:1]); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
