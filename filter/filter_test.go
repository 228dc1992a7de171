package filter

import (
	"strings"
	"testing"
	"time"

	"github.com/yjl9903/nqbtc/qbittorrent"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasTag("iso")`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty filter expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasTag("unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `Torrent.Ratio > 2.0 and daysSince(added) > 30 and isComplete()`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f == nil {
				t.Fatalf("expected filter but got nil")
			}
			if f.Expression() != tt.expression {
				t.Fatalf("Expression() = %q, want %q", f.Expression(), tt.expression)
			}
		})
	}
}

func testTorrent() qbittorrent.Torrent {
	return qbittorrent.Torrent{
		Hash:     "aaa",
		Name:     "debian-12.5.0-amd64.iso",
		State:    "stoppedUP",
		Progress: 1.0,
		Ratio:    3.2,
		Size:     4 << 30,
		Uploaded: 13 << 30,
		Category: "os",
		Tags:     "linux, iso",
		Tracker:  "https://tracker.debian.example/announce",
		AddedOn:  time.Now().AddDate(0, 0, -45).Unix(),
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		expression string
		want       bool
	}{
		{`hasTag("iso")`, true},
		{`hasTag("ISO")`, true},
		{`hasTag("movies")`, false},
		{`inCategory("OS")`, true},
		{`isComplete()`, true},
		{`isStopped()`, true},
		{`isSeeding()`, false},
		{`Torrent.Ratio > 2.0`, true},
		{`Torrent.Ratio > 5.0`, false},
		{`sizeGB() >= 4.0`, true},
		{`uploadedGB() > 10.0`, true},
		{`daysSince(added) > 30`, true},
		{`daysSince(added) > 60`, false},
		{`contains(Torrent.Name, "DEBIAN")`, true},
		{`onTracker("debian.example")`, true},
		{`hasTag("iso") and Torrent.Ratio > 2.0 and isComplete()`, true},
	}

	torrent := testTorrent()
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got, err := f.Match(torrent)
			if err != nil {
				t.Fatalf("match: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Match(%q) = %v, want %v", tt.expression, got, tt.want)
			}
		})
	}
}

func TestMatchRejectsNonBoolean(t *testing.T) {
	f, err := Compile(`Torrent.Name`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	_, err = f.Match(testTorrent())
	if err == nil {
		t.Fatalf("expected non-boolean expression to error")
	}
	if !strings.Contains(err.Error(), "not boolean") {
		t.Fatalf("error %q does not mention boolean", err.Error())
	}
}

func TestApply(t *testing.T) {
	big := testTorrent()
	small := testTorrent()
	small.Hash = "bbb"
	small.Name = "notes.txt.torrent"
	small.Size = 1 << 20
	small.Tags = ""

	f, err := Compile(`sizeGB() >= 1.0`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	got, err := f.Apply([]qbittorrent.Torrent{big, small})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(got) != 1 || got[0].Hash != "aaa" {
		t.Fatalf("Apply selected %d torrents, want exactly the large one", len(got))
	}
}
