// Package recommend ranks catalog songs by cosine similarity over a
// precomputed embedding matrix. Row i of the matrix is the embedding
// of the song whose song_code is i.
package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

// ErrUnknownSongCode indicates the code has no row in the matrix.
var ErrUnknownSongCode = errors.New("unknown song code")

// Match pairs a song code with its similarity to the query song.
type Match struct {
	SongCode int
	Score    float64
}

// Recommender holds the embedding matrix in memory. It is read-only
// after construction and safe for concurrent use.
type Recommender struct {
	embeddings [][]float64
}

// Load reads an embedding matrix from a JSON file containing an array
// of equal-length float vectors.
func Load(path string) (*Recommender, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embeddings: %w", err)
	}
	return Parse(data)
}

// Parse builds a Recommender from raw JSON embedding data.
func Parse(data []byte) (*Recommender, error) {
	var embeddings [][]float64
	if err := json.Unmarshal(data, &embeddings); err != nil {
		return nil, fmt.Errorf("decode embeddings: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, errors.New("embedding matrix is empty")
	}
	dim := len(embeddings[0])
	for i, row := range embeddings {
		if len(row) != dim {
			return nil, fmt.Errorf("embedding row %d has dimension %d, expected %d", i, len(row), dim)
		}
	}
	return &Recommender{embeddings: embeddings}, nil
}

// Size returns the number of songs in the matrix.
func (r *Recommender) Size() int {
	return len(r.embeddings)
}

// SimilarSongs returns up to topK songs most similar to the given
// song code, best first, never including the query song itself.
func (r *Recommender) SimilarSongs(songCode, topK int) ([]Match, error) {
	if songCode < 0 || songCode >= len(r.embeddings) {
		return nil, ErrUnknownSongCode
	}
	if topK <= 0 {
		return nil, nil
	}

	query := r.embeddings[songCode]
	matches := make([]Match, 0, len(r.embeddings)-1)
	for code, row := range r.embeddings {
		if code == songCode {
			continue
		}
		matches = append(matches, Match{SongCode: code, Score: cosine(query, row)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
