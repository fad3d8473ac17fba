package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/hpungsan/mnemo/internal/config"
	"github.com/hpungsan/mnemo/internal/db"
	"github.com/hpungsan/mnemo/internal/decision"
	"github.com/hpungsan/mnemo/internal/ops"
)

// setupTestEnv creates an ops environment over a temporary database.
func setupTestEnv(t *testing.T) *ops.Env {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	settings, err := config.NewStore(database)
	if err != nil {
		t.Fatalf("failed to create settings store: %v", err)
	}

	return ops.NewEnv(database, config.DefaultConfig(), settings)
}

// runCLI runs the app with text piped to stdin and captures stdout.
func runCLI(t *testing.T, env *ops.Env, stdin string, args ...string) (string, error) {
	t.Helper()

	app := newCLIApp(env)

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	oldStdin := os.Stdin
	if stdin != "" {
		stdinR, stdinW, _ := os.Pipe()
		os.Stdin = stdinR
		go func() {
			_, _ = stdinW.WriteString(stdin)
			stdinW.Close()
		}()
	}

	err := app.Run(append([]string{"mnemo"}, args...))

	os.Stdin = oldStdin
	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

func TestCLISuggest_AutoStore(t *testing.T) {
	env := setupTestEnv(t)

	out, err := runCLI(t, env,
		"Remember that our API key rotation happens every 90 days and the staging environment uses the old keys",
		"suggest", "--session=s1")
	if err != nil {
		t.Fatalf("suggest command failed: %v", err)
	}

	var output ops.SuggestOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output.Outcome != decision.OutcomeAutoStore {
		t.Errorf("Outcome = %s, want auto_store", output.Outcome)
	}
	if output.MemoryID == "" {
		t.Error("MemoryID should be set")
	}
}

func TestCLISuggest_RequiresStdin(t *testing.T) {
	env := setupTestEnv(t)

	// Empty stdin pipe still counts as piped input but carries no text.
	_, err := runCLI(t, env, " ", "suggest", "--session=s1")
	if err == nil {
		t.Fatal("expected an error for empty text")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestCLISuggestApproveFlow(t *testing.T) {
	env := setupTestEnv(t)

	out, err := runCLI(t, env,
		"I prefer 2-space indentation and always use const over let",
		"suggest", "--session=s1")
	if err != nil {
		t.Fatalf("suggest command failed: %v", err)
	}

	var suggested ops.SuggestOutput
	if err := json.Unmarshal([]byte(out), &suggested); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if suggested.Outcome != decision.OutcomeSuggest {
		t.Fatalf("Outcome = %s, want suggest", suggested.Outcome)
	}

	out, err = runCLI(t, env, "", "approve", suggested.Suggestion.ID)
	if err != nil {
		t.Fatalf("approve command failed: %v", err)
	}

	var approved ops.ApproveOutput
	if err := json.Unmarshal([]byte(out), &approved); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if approved.Memory.ID == "" {
		t.Error("approved memory should have an id")
	}

	// Approving again conflicts.
	_, err = runCLI(t, env, "", "approve", suggested.Suggestion.ID)
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	if !strings.Contains(err.Error(), "CONFLICT") {
		t.Errorf("err = %v, want CONFLICT", err)
	}
}

func TestCLISettings(t *testing.T) {
	env := setupTestEnv(t)

	out, err := runCLI(t, env, "", "settings", "set", "intelligent_storage.privacy_mode", "true")
	if err != nil {
		t.Fatalf("settings set failed: %v", err)
	}

	var set ops.SettingsSetOutput
	if err := json.Unmarshal([]byte(out), &set); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if set.Value != true {
		t.Errorf("Value = %v, want true", set.Value)
	}

	out, err = runCLI(t, env, "", "settings", "list")
	if err != nil {
		t.Fatalf("settings list failed: %v", err)
	}
	if !strings.Contains(out, "intelligent_storage.privacy_mode") {
		t.Errorf("list output missing the privacy_mode key:\n%s", out)
	}

	_, err = runCLI(t, env, "", "settings", "set", "intelligent_storage.auto_store_threshold", "2")
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "VALIDATION") {
		t.Errorf("err = %v, want VALIDATION", err)
	}
}

func TestCLIPendingAndCleanup(t *testing.T) {
	env := setupTestEnv(t)

	_, err := runCLI(t, env,
		"I prefer 2-space indentation and always use const over let",
		"suggest", "--session=s1")
	if err != nil {
		t.Fatalf("suggest command failed: %v", err)
	}

	out, err := runCLI(t, env, "", "pending")
	if err != nil {
		t.Fatalf("pending command failed: %v", err)
	}

	var pending ops.PendingOutput
	if err := json.Unmarshal([]byte(out), &pending); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if pending.Count != 1 {
		t.Errorf("Count = %d, want 1", pending.Count)
	}

	out, err = runCLI(t, env, "", "cleanup", "--retention-days=7")
	if err != nil {
		t.Fatalf("cleanup command failed: %v", err)
	}

	var cleaned ops.CleanupOutput
	if err := json.Unmarshal([]byte(out), &cleaned); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if cleaned.Expired != 0 {
		t.Errorf("Expired = %d, want 0 for fresh suggestions", cleaned.Expired)
	}
}
