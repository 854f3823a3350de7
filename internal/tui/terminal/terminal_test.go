package terminal

import (
	"os"
	"path/filepath"
	"testing"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestInteractive_RegularFile(t *testing.T) {
	t.Setenv(envCI, "")
	t.Setenv(envNoColor, "")
	if Interactive(tempFile(t), false) {
		t.Error("a regular file is not interactive")
	}
}

func TestInteractive_ForcePlain(t *testing.T) {
	if Interactive(os.Stdout, true) {
		t.Error("forcePlain should disable interaction")
	}
}

func TestInteractive_Environment(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"ci", envCI, "true"},
		{"no color", envNoColor, "1"},
		{"dumb term", envTerm, "dumb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if Interactive(os.Stdout, false) {
				t.Errorf("%s=%s should disable interaction", tt.key, tt.val)
			}
		})
	}
}

func TestWidth_NotATerminal(t *testing.T) {
	if got := Width(tempFile(t)); got != DefaultWidth {
		t.Errorf("Width() = %d, want %d", got, DefaultWidth)
	}
}

func TestEnvTruthy(t *testing.T) {
	tests := map[string]bool{
		"1": true, "TRUE": true, " yes ": true, "on": true,
		"": false, "0": false, "no": false,
	}
	for val, want := range tests {
		t.Setenv("FINBOARD_TEST_FLAG", val)
		if got := envTruthy("FINBOARD_TEST_FLAG"); got != want {
			t.Errorf("envTruthy(%q) = %v, want %v", val, got, want)
		}
	}
}
