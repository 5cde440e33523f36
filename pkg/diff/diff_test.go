package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnified(t *testing.T) {
	before := "a: 1\nb: 2\n"
	after := "a: 1\nb: 3\n"

	got := Unified("team.yaml", before, after)
	assert.Equal(t, "--- a/team.yaml\n+++ b/team.yaml\n@@ -1,2 +1,2 @@\n a: 1\n-b: 2\n+b: 3\n", got)
}

func TestUnified_Identical(t *testing.T) {
	assert.Empty(t, Unified("team.yaml", "a: 1\n", "a: 1\n"))
}

func TestUnified_NewFile(t *testing.T) {
	got := Unified("new.yaml", "", "a: 1\n")
	assert.Contains(t, got, "+a: 1\n")
}

func TestColorize_NoColor(t *testing.T) {
	text := "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n"
	assert.Equal(t, text, Colorize(text, false))
}

func TestColorize_KeepsLines(t *testing.T) {
	text := "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n"
	got := Colorize(text, true)
	assert.Contains(t, got, "-a")
	assert.Contains(t, got, "+b")
}
