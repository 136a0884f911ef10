package transcript

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sample = `WEBVTT

00:00:00.000 --> 00:00:02.000
<v Adam>Hi all.</v>

00:00:02.000 --> 00:00:05.000
<v Kevin>Can we fix printing?</v>

00:00:05.000 --> 00:00:09.000
<v Yahia>I will look into it.</v>
`

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no delimiter",
			text: "WEBVTT\n\nnothing to see",
			want: nil,
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "trailing text is discarded",
			text: "<v A>one</v>  <v B>two</v> trailing",
			want: []string{"<v A>one</v>", "<v B>two</v>"},
		},
		{
			name: "fragments are trimmed",
			text: "\n  <v A>one  </v>\n\n<v B>two</v>",
			want: []string{"<v A>one</v>", "<v B>two</v>"},
		},
		{
			name: "delimiter mid word is accepted",
			text: "ab</v>cd</v>",
			want: []string{"ab</v>", "cd</v>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitSample(t *testing.T) {
	entries := Split(strings.TrimSpace(sample))
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if !strings.HasPrefix(entries[0], "WEBVTT") {
		t.Errorf("first entry should carry the header, got %q", entries[0])
	}
	if entries[2] != "00:00:05.000 --> 00:00:09.000\n<v Yahia>I will look into it.</v>" {
		t.Errorf("entries[2] = %q", entries[2])
	}

	// Splitting is a pure function of its input.
	if !reflect.DeepEqual(entries, Split(strings.TrimSpace(sample))) {
		t.Error("Split() is not deterministic")
	}
}

func TestDropHeader(t *testing.T) {
	if got := DropHeader(nil); got != nil {
		t.Errorf("DropHeader(nil) = %v, want nil", got)
	}
	got := DropHeader([]string{"h", "a", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("DropHeader() = %v", got)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meeting.vtt")
	if err := os.WriteFile(path, []byte("\n\n"+sample+"\n\n"), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(text, "WEBVTT") || strings.HasSuffix(text, "\n") {
		t.Errorf("ReadFile() did not trim: %q", text)
	}

	bad := filepath.Join(dir, "bad.vtt")
	if err := os.WriteFile(bad, []byte{0xff, 0xfe, 0xfd}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(bad); err == nil {
		t.Error("ReadFile() should reject invalid UTF-8")
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.vtt")); err == nil {
		t.Error("ReadFile() should fail for a missing file")
	}
}

func TestIsTranscriptFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"meeting.vtt", true},
		{"MEETING.VTT", true},
		{"notes.txt", true},
		{"video.mp4", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsTranscriptFile(tt.path); got != tt.want {
			t.Errorf("IsTranscriptFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
