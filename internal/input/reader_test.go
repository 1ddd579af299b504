package input

import (
	"io"
	"testing"
)

func TestStringReader_ReadString(t *testing.T) {
	t.Run("single answer", func(t *testing.T) {
		reader := NewStringReader("y\n")
		result, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("ReadString failed: %v", err)
		}
		if result != "y\n" {
			t.Errorf("expected 'y\\n', got '%s'", result)
		}
	})

	t.Run("answers come back in script order", func(t *testing.T) {
		answers := []string{"n\n", "yes\n", "swordfish\n"}
		reader := NewStringReader(answers...)

		for i, want := range answers {
			got, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("ReadString for answer %d failed: %v", i, err)
			}
			if got != want {
				t.Errorf("answer %d: expected %q, got %q", i, want, got)
			}
		}
	})

	t.Run("EOF after the script is consumed", func(t *testing.T) {
		reader := NewStringReader("y\n")
		if _, err := reader.ReadString('\n'); err != nil {
			t.Fatalf("ReadString failed: %v", err)
		}

		result, err := reader.ReadString('\n')
		if err != io.EOF {
			t.Errorf("expected io.EOF, got %v", err)
		}
		if result != "" {
			t.Errorf("expected empty string, got '%s'", result)
		}
	})

	t.Run("EOF with no script at all", func(t *testing.T) {
		reader := NewStringReader()
		result, err := reader.ReadString('\n')
		if err != io.EOF {
			t.Errorf("expected io.EOF, got %v", err)
		}
		if result != "" {
			t.Errorf("expected empty string, got '%s'", result)
		}
	})
}

func TestNewStdinReader(t *testing.T) {
	reader := NewStdinReader()
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
	if reader.reader == nil {
		t.Error("expected non-nil bufio.Reader")
	}
}
