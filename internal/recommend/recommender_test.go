package recommend

import (
	"errors"
	"math"
	"testing"
)

func testRecommender(t *testing.T) *Recommender {
	t.Helper()
	r, err := Parse([]byte(`[
		[1, 0],
		[0.9, 0.1],
		[0, 1],
		[-1, 0]
	]`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return r
}

func TestSimilarSongsRanking(t *testing.T) {
	r := testRecommender(t)

	matches, err := r.SimilarSongs(0, 3)
	if err != nil {
		t.Fatalf("SimilarSongs error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}

	// Song 1 points almost the same way as song 0, song 2 is
	// orthogonal, song 3 is opposite.
	wantOrder := []int{1, 2, 3}
	for i, want := range wantOrder {
		if matches[i].SongCode != want {
			t.Fatalf("match %d: expected song %d, got %d", i, want, matches[i].SongCode)
		}
	}
	if matches[0].Score <= matches[1].Score || matches[1].Score <= matches[2].Score {
		t.Fatalf("scores not descending: %+v", matches)
	}
}

func TestSimilarSongsExcludesSelf(t *testing.T) {
	r := testRecommender(t)

	matches, err := r.SimilarSongs(2, 10)
	if err != nil {
		t.Fatalf("SimilarSongs error: %v", err)
	}
	for _, m := range matches {
		if m.SongCode == 2 {
			t.Fatal("query song must not appear in its own matches")
		}
	}
	if len(matches) != 3 {
		t.Fatalf("expected all 3 other songs, got %d", len(matches))
	}
}

func TestSimilarSongsTruncatesToTopK(t *testing.T) {
	r := testRecommender(t)

	matches, err := r.SimilarSongs(0, 1)
	if err != nil {
		t.Fatalf("SimilarSongs error: %v", err)
	}
	if len(matches) != 1 || matches[0].SongCode != 1 {
		t.Fatalf("expected single best match for song 1, got %+v", matches)
	}
}

func TestSimilarSongsUnknownCode(t *testing.T) {
	r := testRecommender(t)

	if _, err := r.SimilarSongs(99, 5); !errors.Is(err, ErrUnknownSongCode) {
		t.Fatalf("expected ErrUnknownSongCode, got %v", err)
	}
	if _, err := r.SimilarSongs(-1, 5); !errors.Is(err, ErrUnknownSongCode) {
		t.Fatalf("expected ErrUnknownSongCode, got %v", err)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2}, b: []float64{1, 2}, want: 1},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := cosine(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("cosine = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseRejectsRaggedMatrix(t *testing.T) {
	if _, err := Parse([]byte(`[[1, 0], [1]]`)); err == nil {
		t.Fatal("expected error for ragged matrix")
	}
}

func TestParseRejectsEmptyMatrix(t *testing.T) {
	if _, err := Parse([]byte(`[]`)); err == nil {
		t.Fatal("expected error for empty matrix")
	}
}
