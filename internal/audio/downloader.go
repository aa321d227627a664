// Package audio fetches song audio from an external video-sharing
// site with the yt-dlp tool and serves the downloaded files back.
package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

const downloadTimeout = 5 * time.Minute

var (
	// ErrDownloaderNotFound means the yt-dlp binary is not in PATH.
	ErrDownloaderNotFound = errors.New("yt-dlp not found in PATH")
	// ErrNotDownloaded means no audio has been fetched for the song yet.
	ErrNotDownloaded = errors.New("audio not downloaded for this song")
	// ErrNoResult means the search returned nothing usable.
	ErrNoResult = errors.New("no downloadable result for query")
)

// Details records where a song's audio ended up.
type Details struct {
	URL       string `json:"url"`
	Filepath  string `json:"filepath"`
	Filename  string `json:"filename"`
	Thumbnail string `json:"thumbnail"`
}

// searchResult is the subset of yt-dlp's JSON output we consume.
type searchResult struct {
	Entries []struct {
		URL        string `json:"url"`
		Thumbnails []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
		RequestedDownloads []struct {
			Filepath string `json:"filepath"`
		} `json:"requested_downloads"`
	} `json:"entries"`
}

// Downloader shells out to yt-dlp and keeps per-song metadata sidecar
// files under outputDir/metadata.
type Downloader struct {
	bin       string
	outputDir string
}

// NewDownloader creates a Downloader writing into outputDir.
func NewDownloader(outputDir string) *Downloader {
	return &Downloader{bin: "yt-dlp", outputDir: outputDir}
}

// SearchQuery builds the single-result search term used against the
// external site for a song title and artist name.
func SearchQuery(title, artist string) string {
	if artist == "" {
		return fmt.Sprintf("ytsearch1:%s", title)
	}
	return fmt.Sprintf("ytsearch1:%s by %s", title, artist)
}

// Download fetches the best audio for the given song and writes its
// metadata sidecar. Returns the stored details.
func (d *Downloader) Download(ctx context.Context, songID, title, artist string) (*Details, error) {
	if _, err := exec.LookPath(d.bin); err != nil {
		return nil, ErrDownloaderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	query := SearchQuery(title, artist)
	outTemplate := filepath.Join(d.outputDir, "%(title)s.%(ext)s")

	cmd := exec.CommandContext(ctx, d.bin,
		"--no-playlist",
		"--format", "bestaudio",
		"--output", outTemplate,
		"--print-json",
		query,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Info().
		Str("song_id", songID).
		Str("query", query).
		Msg("downloading audio")

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("download timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("run yt-dlp: %w: %s", err, stderr.String())
	}

	details, err := ParseResult(stdout.Bytes())
	if err != nil {
		return nil, err
	}

	if err := d.writeMetadata(songID, details); err != nil {
		return nil, err
	}
	return details, nil
}

// ParseResult extracts download details from yt-dlp's JSON output.
// Single-video dumps are treated as a one-entry search result.
func ParseResult(data []byte) (*Details, error) {
	var result searchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode yt-dlp output: %w", err)
	}
	if len(result.Entries) == 0 {
		// Not a search wrapper; retry as a bare entry.
		var entry struct {
			URL        string `json:"url"`
			Thumbnails []struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
			RequestedDownloads []struct {
				Filepath string `json:"filepath"`
			} `json:"requested_downloads"`
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, fmt.Errorf("decode yt-dlp output: %w", err)
		}
		result.Entries = append(result.Entries, entry)
	}

	first := result.Entries[0]
	if len(first.RequestedDownloads) == 0 {
		return nil, ErrNoResult
	}

	details := &Details{
		URL:      first.URL,
		Filepath: first.RequestedDownloads[0].Filepath,
		Filename: filepath.Base(first.RequestedDownloads[0].Filepath),
	}
	if len(first.Thumbnails) > 0 {
		details.Thumbnail = first.Thumbnails[len(first.Thumbnails)-1].URL
	}
	return details, nil
}

// Metadata returns the stored details for a previously downloaded song.
func (d *Downloader) Metadata(songID string) (*Details, error) {
	data, err := os.ReadFile(d.metadataPath(songID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotDownloaded
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var details Details
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &details, nil
}

// AudioPath returns the local file path of a downloaded song.
func (d *Downloader) AudioPath(songID string) (string, error) {
	details, err := d.Metadata(songID)
	if err != nil {
		return "", err
	}
	if details.Filepath == "" {
		return "", ErrNotDownloaded
	}
	return details.Filepath, nil
}

func (d *Downloader) writeMetadata(songID string, details *Details) error {
	dir := filepath.Join(d.outputDir, "metadata")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}

	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(d.metadataPath(songID), data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func (d *Downloader) metadataPath(songID string) string {
	return filepath.Join(d.outputDir, "metadata", songID+".json")
}
