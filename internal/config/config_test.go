package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7878" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	want := []string{"./public/index.html", "./public/style.css"}
	if !reflect.DeepEqual(cfg.Files, want) {
		t.Fatalf("unexpected files: %v", cfg.Files)
	}
	if cfg.Render != "" || cfg.Title != "Home" || cfg.NoColor {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RenderTarget() != "./public/index.html" {
		t.Fatalf("unexpected render target: %s", cfg.RenderTarget())
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{"--", "-addr", ":9000", "-file", "a.html", "-file", "b.css", "-no-color"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if !reflect.DeepEqual(cfg.Files, []string{"a.html", "b.css"}) {
		t.Fatalf("unexpected files: %v", cfg.Files)
	}
	if !cfg.NoColor {
		t.Fatalf("expected no-color")
	}
}

func TestParseHelp(t *testing.T) {
	stderr := os.Stderr
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open devnull: %v", err)
	}
	os.Stderr = devNull
	defer func() {
		os.Stderr = stderr
		devNull.Close()
	}()

	if _, err := Parse([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}

func TestParseInvalidAddr(t *testing.T) {
	for _, addr := range []string{"localhost", "127.0.0.1:http-ish", ""} {
		if _, err := Parse([]string{"-addr", addr}); err == nil {
			t.Fatalf("expected error for addr %q", addr)
		}
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestParseTOMLFile(t *testing.T) {
	path := writeConfig(t, "allowserve.toml", `
addr = "127.0.0.1:8088"
files = ["site/index.html", "site/app.js"]
render = "site/README.md"
title = "Docs"
`)
	cfg, err := Parse([]string{"-config", path})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != "127.0.0.1:8088" || cfg.Render != "site/README.md" || cfg.Title != "Docs" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Files, []string{"site/index.html", "site/app.js"}) {
		t.Fatalf("unexpected files: %v", cfg.Files)
	}
}

func TestParseYAMLFileFlagsWin(t *testing.T) {
	path := writeConfig(t, "allowserve.yaml", "addr: 127.0.0.1:8089\nfiles:\n  - www/index.html\ntitle: From YAML\n")
	cfg, err := Parse([]string{"-config", path, "-addr", "127.0.0.1:9999"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("flag should win, got %s", cfg.Addr)
	}
	if !reflect.DeepEqual(cfg.Files, []string{"www/index.html"}) || cfg.Title != "From YAML" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{name: "unknown extension", file: "allowserve.ini", body: "addr=1"},
		{name: "broken toml", file: "allowserve.toml", body: "addr = ["},
		{name: "broken yaml", file: "allowserve.yml", body: "files: [a, b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.body)
			if _, err := Parse([]string{"-config", path}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := Parse([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestStripFlagTerminator(t *testing.T) {
	got := stripFlagTerminator([]string{"--", "-addr", ":1", "--"})
	if !reflect.DeepEqual(got, []string{"-addr", ":1"}) {
		t.Fatalf("unexpected args: %v", got)
	}
}
