package internal

import (
	"path/filepath"
	"testing"

	"github.com/drapaimern/lumina/internal/cli"
	"github.com/drapaimern/lumina/internal/core"
)

func TestResolveBasePath_LuminaHomeSet(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LUMINA_HOME", tmpDir)

	got := ResolveBasePath()
	if got != tmpDir {
		t.Errorf("ResolveBasePath() = %q, want %q", got, tmpDir)
	}
}

func TestResolveBasePath_DefaultsToHomeDir(t *testing.T) {
	t.Setenv("LUMINA_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	got := ResolveBasePath()
	want := filepath.Join(home, ".lumina")
	if got != want {
		t.Errorf("ResolveBasePath() = %q, want %q", got, want)
	}
}

func TestNewApp_Success(t *testing.T) {
	tmpDir := t.TempDir()
	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if app.BasePath != tmpDir {
		t.Errorf("app.BasePath = %q, want %q", app.BasePath, tmpDir)
	}

	// Verify that key services are wired.
	if app.KV == nil {
		t.Error("app.KV is nil")
	}
	if app.Repo == nil {
		t.Error("app.Repo is nil")
	}
	if app.Assist == nil {
		t.Error("app.Assist is nil")
	}
	if app.EventLog == nil {
		t.Error("app.EventLog is nil")
	}
	if app.Config == nil {
		t.Fatal("app.Config is nil")
	}
	if app.Config.Model != core.DefaultModel {
		t.Errorf("app.Config.Model = %q, want %q", app.Config.Model, core.DefaultModel)
	}
}

func TestNewApp_WiresCLIPackage(t *testing.T) {
	tmpDir := t.TempDir()
	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	if cli.BasePath != tmpDir {
		t.Errorf("cli.BasePath = %q, want %q", cli.BasePath, tmpDir)
	}
	if cli.Repo == nil || cli.KV == nil || cli.Assist == nil {
		t.Error("CLI services not wired")
	}
	if cli.Cfg != app.Config {
		t.Error("cli.Cfg must point at the app config")
	}
}

// An empty tracker starts with an empty collection, not an error.
func TestNewApp_FreshDirLoadsEmpty(t *testing.T) {
	app, err := NewApp(t.TempDir())
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if tasks := app.Repo.Load(); len(tasks) != 0 {
		t.Errorf("expected empty collection, got %d tasks", len(tasks))
	}
}
