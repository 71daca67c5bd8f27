package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSplitRoster(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"tit_for_tat", []string{"tit_for_tat"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{"a,,b,", []string{"a", "b"}},
	}
	for _, tc := range cases {
		if got := splitRoster(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitRoster(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"simulate"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("got %v, want unknown command error", err)
	}
	if err := run(context.Background(), nil); err == nil {
		t.Fatalf("expected usage error for no arguments")
	}
}

func TestLoadSweepConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	doc := "mode: tournament\nroster: [tit_for_tat, always_defect]\nseed: 9\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadSweepConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Seed != 9 || len(cfg.Roster) != 2 {
		t.Fatalf("lowered config mismatch: %+v", cfg)
	}
	if _, err := loadSweepConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
