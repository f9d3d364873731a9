package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvRCommand, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.R.Repos != DefaultRepos || cfg.LogLevel != "info" || cfg.R.Command != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ResolveTempDir() != os.TempDir() {
		t.Fatalf("expected system temp dir")
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvRCommand, "")
	p := filepath.Join(t.TempDir(), "config.yaml")
	body := `r:
  command: "/opt/R/4.4/bin/R --vanilla --quiet"
  repos: https://cran.example.org
temp_dir: /var/tmp/rpkgs
log_level: debug
db_path: /tmp/h.db
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.R.Command != "/opt/R/4.4/bin/R --vanilla --quiet" || cfg.R.Repos != "https://cran.example.org" {
		t.Fatalf("unexpected r section: %+v", cfg.R)
	}
	if cfg.ResolveTempDir() != "/var/tmp/rpkgs" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if db, _ := cfg.ResolveDBPath(); db != "/tmp/h.db" {
		t.Fatalf("unexpected db path %s", db)
	}
}

func TestEnvOverridesCommand(t *testing.T) {
	t.Setenv(EnvRCommand, "Rscript-like --quiet")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.R.Command != "Rscript-like --quiet" {
		t.Fatalf("env override not applied: %q", cfg.R.Command)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Setenv(EnvRCommand, "")
	dir := t.TempDir()
	cases := map[string]string{
		"bad yaml":  "r: [unterminated",
		"bad quote": "r:\n  command: \"R '--quiet\"\n",
	}
	for name, body := range cases {
		p := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(p); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvRCommand, "")
	p := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.R.Command = "R --quiet"
	if err := cfg.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, cfg)
	}
}
