package puzzle_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/aretw0/vialsort/pkg/puzzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, puzzle.FormatYAML, puzzle.FormatFromPath("a/b.yaml"))
	assert.Equal(t, puzzle.FormatYAML, puzzle.FormatFromPath("B.YML"))
	assert.Equal(t, puzzle.FormatJSONLines, puzzle.FormatFromPath("b.jsonl"))
	assert.Equal(t, puzzle.FormatJSONLines, puzzle.FormatFromPath("puzzles.txt"))
}

func TestRead_JSONLines(t *testing.T) {
	input := strings.Join([]string{
		`{"vial_size": 2, "vials": [[0, 1], [1, 0], []]}`,
		``,
		`  {"vial_size": 3, "vials": [[5]], "note": "x"}  `,
	}, "\n")

	descs, err := puzzle.Read(strings.NewReader(input), puzzle.FormatJSONLines)
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, 2, descs[0].VialSize)
	assert.Equal(t, 3, descs[1].VialSize)
	assert.Equal(t, "x", descs[1].Extra["note"])
}

func TestRead_JSONLinesReportsLine(t *testing.T) {
	input := "{\"vial_size\": 2, \"vials\": []}\n\n{\"vial_size\": 1, \"vials\": [[0, 0]]}\n"

	_, err := puzzle.Read(strings.NewReader(input), puzzle.FormatJSONLines)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPuzzle)
	assert.Contains(t, err.Error(), "line 3")
}

func TestRead_YAML(t *testing.T) {
	input := `vial_size: 4
vials:
  - [0, 0, 1, 1]
  - [1, 0, 1, 0]
  - []
  - []
difficulty: hard
---
vial_size: 1
vials: [[3]]
`
	descs, err := puzzle.Read(strings.NewReader(input), puzzle.FormatYAML)
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, [][]int{{0, 0, 1, 1}, {1, 0, 1, 0}, {}, {}}, descs[0].Vials)
	assert.Equal(t, "hard", descs[0].Extra["difficulty"])

	p, err := descs[1].Puzzle()
	require.NoError(t, err)
	assert.True(t, p.IsSolved())
}

func TestRead_YAMLReportsDocument(t *testing.T) {
	input := "vial_size: 2\nvials: []\n---\nvial_size: 2\nvials: [[1.5]]\n"

	_, err := puzzle.Read(strings.NewReader(input), puzzle.FormatYAML)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPuzzle)
	assert.Contains(t, err.Error(), "document 2")
}

func TestRead_UnknownFormat(t *testing.T) {
	_, err := puzzle.Read(strings.NewReader(""), puzzle.Format("xml"))
	assert.Error(t, err)
}

func TestWrite_RoundTrip(t *testing.T) {
	descs := []*puzzle.Description{
		{VialSize: 2, Vials: [][]int{{0, 1}, {1, 0}, {}}, Extra: map[string]any{"seed": "abc"}},
		{VialSize: 1, Vials: [][]int{{4}}},
	}

	for _, format := range []puzzle.Format{puzzle.FormatJSONLines, puzzle.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, puzzle.Write(&buf, format, descs))

			back, err := puzzle.Read(&buf, format)
			require.NoError(t, err)
			require.Len(t, back, 2)
			assert.Equal(t, descs[0].Vials, back[0].Vials)
			assert.Equal(t, "abc", back[0].Extra["seed"])
			assert.Equal(t, descs[1].Vials, back[1].Vials)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "puzzles.yml")
	require.NoError(t, os.WriteFile(path, []byte("vial_size: 2\nvials: [[0], [0]]\n"), 0o644))

	descs, err := puzzle.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, descs, 1)

	_, err = puzzle.ReadFile(filepath.Join(dir, "missing.jsonl"))
	assert.Error(t, err)
}
