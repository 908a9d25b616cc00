package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/kannadify/internal/testutil"
)

func TestArchiveOutput(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "audio")
	testutil.CreateTestFile(t, filepath.Join(outDir, "kannada_translation.wav"), testutil.WAVHeader)
	testutil.CreateTestFile(t, filepath.Join(outDir, "translations.txt"), []byte("water = ನೀರು\n"))

	archived, err := ArchiveOutput(outDir)
	if err != nil {
		t.Fatalf("ArchiveOutput failed: %v", err)
	}

	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("Output directory still exists after archiving")
	}
	if filepath.Dir(archived) != filepath.Join(tmpDir, "archive") {
		t.Errorf("archived to %s, want it under %s", archived, filepath.Join(tmpDir, "archive"))
	}
	if !strings.HasPrefix(filepath.Base(archived), "audio-") {
		t.Errorf("archive name %q should start with audio-", filepath.Base(archived))
	}

	testutil.AssertFileContent(t, filepath.Join(archived, "kannada_translation.wav"), testutil.WAVHeader)
	testutil.AssertFileContains(t, filepath.Join(archived, "translations.txt"), "ನೀರು")
}

func TestArchiveOutputMissing(t *testing.T) {
	_, err := ArchiveOutput(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestArchiveSameSecond(t *testing.T) {
	tmpDir := t.TempDir()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	first := filepath.Join(tmpDir, "audio")
	testutil.CreateTestFile(t, filepath.Join(first, "a.wav"), testutil.WAVHeader)
	path1, err := archiveAt(first, now)
	if err != nil {
		t.Fatalf("first archive failed: %v", err)
	}

	testutil.CreateTestFile(t, filepath.Join(first, "b.wav"), testutil.WAVHeader)
	path2, err := archiveAt(first, now)
	if err != nil {
		t.Fatalf("second archive failed: %v", err)
	}

	if path1 == path2 {
		t.Fatal("archives in the same second should not collide")
	}
	testutil.AssertFileExists(t, filepath.Join(path1, "a.wav"))
	testutil.AssertFileExists(t, filepath.Join(path2, "b.wav"))
}
