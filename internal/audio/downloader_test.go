package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSearchQuery(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{name: "title and artist", title: "Xtal", artist: "Aphex Twin", want: "ytsearch1:Xtal by Aphex Twin"},
		{name: "title only", title: "Xtal", artist: "", want: "ytsearch1:Xtal"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := SearchQuery(tc.title, tc.artist); got != tc.want {
				t.Fatalf("SearchQuery = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseResultSearchWrapper(t *testing.T) {
	data := []byte(`{
		"entries": [{
			"url": "https://example.test/watch?v=abc",
			"thumbnails": [
				{"url": "https://example.test/small.jpg"},
				{"url": "https://example.test/large.jpg"}
			],
			"requested_downloads": [{"filepath": "/srv/output/Xtal.webm"}]
		}]
	}`)

	details, err := ParseResult(data)
	if err != nil {
		t.Fatalf("ParseResult error: %v", err)
	}
	if details.URL != "https://example.test/watch?v=abc" {
		t.Fatalf("unexpected URL %q", details.URL)
	}
	if details.Filepath != "/srv/output/Xtal.webm" || details.Filename != "Xtal.webm" {
		t.Fatalf("unexpected file details: %+v", details)
	}
	if details.Thumbnail != "https://example.test/large.jpg" {
		t.Fatalf("expected the last (largest) thumbnail, got %q", details.Thumbnail)
	}
}

func TestParseResultBareEntry(t *testing.T) {
	data := []byte(`{
		"url": "https://example.test/watch?v=xyz",
		"requested_downloads": [{"filepath": "/srv/output/Ageispolis.webm"}]
	}`)

	details, err := ParseResult(data)
	if err != nil {
		t.Fatalf("ParseResult error: %v", err)
	}
	if details.Filename != "Ageispolis.webm" {
		t.Fatalf("unexpected filename %q", details.Filename)
	}
}

func TestParseResultNoDownloads(t *testing.T) {
	if _, err := ParseResult([]byte(`{"entries": [{"url": "u"}]}`)); !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := NewDownloader(dir)

	want := &Details{
		URL:       "https://example.test/watch?v=abc",
		Filepath:  filepath.Join(dir, "Xtal.webm"),
		Filename:  "Xtal.webm",
		Thumbnail: "https://example.test/large.jpg",
	}
	if err := d.writeMetadata("song-1", want); err != nil {
		t.Fatalf("writeMetadata error: %v", err)
	}

	got, err := d.Metadata("song-1")
	if err != nil {
		t.Fatalf("Metadata error: %v", err)
	}
	if *got != *want {
		t.Fatalf("metadata mismatch: got %+v, want %+v", got, want)
	}

	path, err := d.AudioPath("song-1")
	if err != nil {
		t.Fatalf("AudioPath error: %v", err)
	}
	if path != want.Filepath {
		t.Fatalf("AudioPath = %q, want %q", path, want.Filepath)
	}
}

func TestMetadataMissing(t *testing.T) {
	d := NewDownloader(t.TempDir())

	if _, err := d.Metadata("ghost"); !errors.Is(err, ErrNotDownloaded) {
		t.Fatalf("expected ErrNotDownloaded, got %v", err)
	}
}

func TestMetadataCorrupt(t *testing.T) {
	dir := t.TempDir()
	d := NewDownloader(dir)

	if err := os.MkdirAll(filepath.Join(dir, "metadata"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata", "bad.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := d.Metadata("bad"); err == nil {
		t.Fatal("expected decode error for corrupt metadata")
	}
}
