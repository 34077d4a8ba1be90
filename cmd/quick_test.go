package cmd

import (
	"strings"
	"testing"
)

func TestQuickAddListRemove(t *testing.T) {
	isolate(t)
	quickCategory = ""

	out, err := executeCommand(rootCmd, "quick", "add", "daily standup", "-c", "work")
	if err != nil {
		t.Fatalf("quick add: %v", err)
	}
	if !strings.Contains(out, `Saved quick task "daily standup" (Work).`) {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = executeCommand(rootCmd, "quick", "list")
	if err != nil {
		t.Fatalf("quick list: %v", err)
	}
	if !strings.Contains(out, "daily standup") {
		t.Errorf("saved task missing from list: %q", out)
	}

	out, err = executeCommand(rootCmd, "quick", "remove", "daily standup")
	if err != nil {
		t.Fatalf("quick remove: %v", err)
	}
	if !strings.Contains(out, `Removed quick task "daily standup".`) {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = executeCommand(rootCmd, "quick", "list")
	if err != nil {
		t.Fatalf("quick list: %v", err)
	}
	if !strings.Contains(out, "no quick tasks saved") {
		t.Errorf("expected empty list, got: %q", out)
	}
}

// A saved quick task supplies its category when start gets none.
func TestQuickTaskPresetCategoryOnStart(t *testing.T) {
	isolate(t)
	quickCategory = ""

	if _, err := executeCommand(rootCmd, "quick", "add", "spanish", "-c", "learning"); err != nil {
		t.Fatalf("quick add: %v", err)
	}
	out, err := executeCommand(rootCmd, "start", "spanish")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !strings.Contains(out, `Started "spanish" (Learning).`) {
		t.Errorf("preset category not applied: %q", out)
	}
}
