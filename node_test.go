package dirtree

import "testing"

func TestPayloadConstructors(t *testing.T) {
	tests := []struct {
		name     string
		payload  Payload
		wantKind Kind
		wantSize uint64
		wantDir  bool
		wantStr  string
	}{
		{"directory", Directory("a"), KindDirectory, 0, true, "a (dir)"},
		{"file", File("b.txt", 14848514), KindFile, 14848514, false, "b.txt (file, size=14848514)"},
		{"empty file", File("empty", 0), KindFile, 0, false, "empty (file, size=0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.payload.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", tt.payload.Kind, tt.wantKind)
			}
			if tt.payload.Size != tt.wantSize {
				t.Errorf("Size = %d, want %d", tt.payload.Size, tt.wantSize)
			}
			if tt.payload.IsDir() != tt.wantDir {
				t.Errorf("IsDir() = %v, want %v", tt.payload.IsDir(), tt.wantDir)
			}
			if got := tt.payload.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindDirectory.String() != "dir" {
		t.Errorf("KindDirectory.String() = %q, want %q", KindDirectory.String(), "dir")
	}
	if KindFile.String() != "file" {
		t.Errorf("KindFile.String() = %q, want %q", KindFile.String(), "file")
	}
	if got := Kind(9).String(); got != "kind(9)" {
		t.Errorf("Kind(9).String() = %q, want %q", got, "kind(9)")
	}
}
