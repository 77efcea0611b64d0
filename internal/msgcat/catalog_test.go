package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, key := range []string{"element.fire", "method.color_spread", "duel.started", "help.body", "history.line"} {
		if !c.Has(key) {
			t.Fatalf("missing default key %s", key)
		}
	}
	got, err := c.Render("card", map[string]any{"Color": "빨강", "Element": "불", "Value": 3})
	if err != nil || got != "빨강 불 3" {
		t.Fatalf("Render(card) = %q, %v", got, err)
	}
}

func TestMissingDataKeyFails(t *testing.T) {
	c, _ := New("")
	if _, err := c.Render("card", map[string]any{"Color": "빨강"}); err == nil {
		t.Fatalf("expected missingkey error")
	}
	if got := c.Text("no.such.key", nil); got != "no.such.key" {
		t.Fatalf("Text fallback = %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("duel:\n  turn_tie: \"DRAW\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("duel.turn_tie", nil); got != "DRAW" {
		t.Fatalf("override not applied: %q", got)
	}
	if got := c.Text("element.snow", nil); got != "눈" {
		t.Fatalf("defaults lost: %q", got)
	}
}

func TestDuplicateOverrideKeys(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("help:\n  header: x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	_, err := New(dir)
	if err == nil || !strings.Contains(err.Error(), "duplicate override key") {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}
