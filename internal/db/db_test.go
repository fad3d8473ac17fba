package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	baseDir := t.TempDir()

	database, err := Init(baseDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer database.Close()

	if _, err := os.Stat(filepath.Join(baseDir, "mnemo.db")); err != nil {
		t.Errorf("database file missing: %v", err)
	}

	version, err := GetUserVersion(database)
	if err != nil {
		t.Fatalf("GetUserVersion failed: %v", err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, CurrentSchemaVersion)
	}
}

func TestInit_Reopen(t *testing.T) {
	baseDir := t.TempDir()

	database, err := Init(baseDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := SetSetting(database, "intelligent_storage.enabled", "false"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	database.Close()

	// Re-init over an existing database: migrations are idempotent and
	// data survives.
	reopened, err := Init(baseDir)
	if err != nil {
		t.Fatalf("re-Init failed: %v", err)
	}
	defer reopened.Close()

	value, ok, err := GetSetting(reopened, "intelligent_storage.enabled")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if !ok || value != "false" {
		t.Errorf("setting = (%q, %v), want (false, true)", value, ok)
	}
}

func TestInit_CreatesBaseDir(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "nested", "mnemo")

	database, err := Init(baseDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer database.Close()

	info, err := os.Stat(baseDir)
	if err != nil {
		t.Fatalf("base dir missing: %v", err)
	}
	if !info.IsDir() {
		t.Error("base dir is not a directory")
	}
}
