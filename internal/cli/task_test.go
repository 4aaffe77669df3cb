package cli

import (
	"testing"
	"time"

	"github.com/drapaimern/lumina/pkg/models"
)

func TestResolveID(t *testing.T) {
	tasks := []models.Task{
		{ID: "abc12345-0000"},
		{ID: "abd67890-0000"},
		{ID: "xyz00000-0000"},
	}

	if id, err := resolveID(tasks, "abc12345-0000"); err != nil || id != "abc12345-0000" {
		t.Errorf("exact match failed: id=%q err=%v", id, err)
	}
	if id, err := resolveID(tasks, "xyz"); err != nil || id != "xyz00000-0000" {
		t.Errorf("unambiguous prefix failed: id=%q err=%v", id, err)
	}
	if _, err := resolveID(tasks, "ab"); err == nil {
		t.Error("ambiguous prefix must error")
	}
	if _, err := resolveID(tasks, "zzz"); err == nil {
		t.Error("unknown prefix must error")
	}
	if _, err := resolveID(nil, "anything"); err == nil {
		t.Error("empty collection must error")
	}
}

func TestParseFilter(t *testing.T) {
	cases := []struct {
		in      string
		want    models.Filter
		wantErr bool
	}{
		{"", models.FilterAll, false},
		{"all", models.FilterAll, false},
		{"pending", models.FilterPending, false},
		{"completed", models.FilterCompleted, false},
		{"bogus", "", true},
	}
	for _, tc := range cases {
		got, err := parseFilter(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("parseFilter(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("parseFilter(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abcdefghij"); got != "abcdefgh" {
		t.Errorf("shortID = %q, want abcdefgh", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("short input must pass through, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate = %q, want hello", got)
	}
	if got := truncate("hello world", 8); got != "hello w…" {
		t.Errorf("truncate = %q, want hello w…", got)
	}
}

func TestParseSinceWindows(t *testing.T) {
	now := time.Now().UTC()

	got, err := parseSince("2d")
	if err != nil {
		t.Fatalf("parseSince(2d): %v", err)
	}
	want := now.AddDate(0, 0, -2)
	if got.Sub(want) > time.Minute || want.Sub(got) > time.Minute {
		t.Errorf("parseSince(2d) = %v, want about %v", got, want)
	}

	if _, err := parseSince("12h"); err != nil {
		t.Errorf("parseSince(12h): %v", err)
	}
	for _, bad := range []string{"", "h", "3m", "soon"} {
		if _, err := parseSince(bad); err == nil {
			t.Errorf("parseSince(%q): expected error", bad)
		}
	}
}
