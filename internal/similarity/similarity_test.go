package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-gap/internal/embedding"
)

// tableEmbedder returns fixed vectors per text and a default for the rest.
type tableEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
	drop    bool
}

func (f *tableEmbedder) Name() string { return "table" }

func (f *tableEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out = append(out, v)
	}
	if f.drop {
		out = out[1:]
	}
	return out, nil
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-3, 0}), 1e-9)
	assert.InDelta(t, math.Sqrt2/2, Cosine([]float32{1, 1}, []float32{1, 0}), 1e-9)

	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 0}))
	assert.Zero(t, Cosine([]float32{1}, []float32{1, 0}))
	assert.Zero(t, Cosine(nil, nil))
}

func TestNewMatrix(t *testing.T) {
	a := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	b := [][]float32{{1, 0}, {0, 2}}

	m, err := NewMatrix(a, b)
	require.NoError(t, err)

	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)

	assert.InDelta(t, 1.0, m.At(0, 0), 1e-9)
	assert.InDelta(t, 0.0, m.At(0, 1), 1e-9)
	assert.InDelta(t, 1.0, m.At(1, 1), 1e-9)
	assert.InDelta(t, math.Sqrt2/2, m.At(2, 0), 1e-9)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			assert.InDelta(t, Cosine(a[i], b[j]), m.At(i, j), 1e-6)
		}
	}
}

func TestMatrix_RowMax(t *testing.T) {
	m, err := NewMatrix(
		[][]float32{{1, 0}, {1, 1}},
		[][]float32{{0, 1}, {1, 0}, {1, 0}},
	)
	require.NoError(t, err)

	j, v := m.RowMax(0)
	assert.Equal(t, 1, j, "ties go to the first column")
	assert.InDelta(t, 1.0, v, 1e-9)

	j, _ = m.RowMax(1)
	assert.Equal(t, 0, j)

	row := m.Row(0)
	row[0] = 42
	assert.NotEqual(t, 42.0, m.At(0, 0), "Row returns a copy")
}

func TestNewMatrix_Errors(t *testing.T) {
	_, err := NewMatrix(nil, [][]float32{{1}})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = NewMatrix([][]float32{{1, 0}}, [][]float32{{1, 0, 0}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewMatrix([][]float32{{1, 0}, {1}}, [][]float32{{1, 0}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestEngine_Embed(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{"react": {1, 0, 0}}}
	e := New(emb)

	_, err := e.Embed(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Zero(t, emb.calls, "empty input must not reach the provider")

	vecs, err := e.Embed(context.Background(), []string{"react", "vue"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0, 0}, {0, 0, 1}}, vecs)
	assert.Equal(t, "table", e.Model())
}

func TestEngine_EmbedProviderError(t *testing.T) {
	cause := &embedding.ProviderError{Provider: "table", Cause: errors.New("deadline exceeded")}
	e := New(&tableEmbedder{err: cause})

	vecs, err := e.Embed(context.Background(), []string{"go"})
	assert.Nil(t, vecs)
	var perr *embedding.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "table", perr.Provider)
}

func TestEngine_EmbedCountMismatch(t *testing.T) {
	e := New(&tableEmbedder{drop: true})

	_, err := e.Embed(context.Background(), []string{"go", "rust"})
	var perr *embedding.ProviderError
	assert.ErrorAs(t, err, &perr)
}

func TestEngine_Pairwise(t *testing.T) {
	e := New(&tableEmbedder{vectors: map[string][]float32{
		"react":   {1, 1, 0},
		"angular": {1, 0, 0},
	}})

	score, err := e.Pairwise(context.Background(), "react", "angular")
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2/2, score, 1e-6)
}

func TestEngine_RelatedSkills(t *testing.T) {
	e := New(&tableEmbedder{vectors: map[string][]float32{
		"docker":     {1, 0, 0},
		"Docker":     {1, 0, 0},
		"kubernetes": {0.9, 0.1, 0},
		"podman":     {0.95, 0.05, 0},
		"excel":      {0, 1, 0},
	}})

	got, err := e.RelatedSkills(context.Background(), "docker",
		[]string{"excel", "Docker", "kubernetes", " ", "podman"}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "podman", got[0].Text)
	assert.Equal(t, "kubernetes", got[1].Text)
	assert.Greater(t, got[0].Score, got[1].Score)

	none, err := e.RelatedSkills(context.Background(), "docker", []string{"DOCKER"}, 5)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = e.RelatedSkills(context.Background(), "  ", []string{"go"}, 5)
	assert.ErrorIs(t, err, ErrEmptyInput)
}
