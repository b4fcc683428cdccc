package cli

import (
	"bytes"
	"testing"

	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCheck(t *testing.T) {
	path := writePuzzleFile(t, "puzzles.yaml", `vial_size: 2
vials: [[0, 1], [1], [0]]
---
vial_size: 3
vials: [[4, 4, 4], []]
`)

	var out bytes.Buffer
	require.NoError(t, RunCheck(path, &out))

	assert.Equal(t,
		"puzzle 1: 3 vials, capacity 2, colors [0 1], unsolved\n"+
			"puzzle 2: 2 vials, capacity 3, colors [4], solved\n"+
			">>> 2 puzzle(s) OK.\n",
		out.String())
}

func TestRunCheck_Malformed(t *testing.T) {
	path := writePuzzleFile(t, "bad.yaml", `vial_size: 0
vials: []
`)

	var out bytes.Buffer
	err := RunCheck(path, &out)
	assert.ErrorIs(t, err, domain.ErrMalformedPuzzle)
	assert.Empty(t, out.String())
}
