package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"map-extractor/internal/converter/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const board = `<svg viewBox="0 0 100 100">
  <g id="provinces"><path id="ber" d="M10 10 L20 10 L20 20 L10 20 Z"/></g>
  <g id="supply-centers"><path id="berCenter" d="M15 15 L.."/></g>
  <g id="names"><text id="t1" x="12" y="14"><tspan>BER</tspan></text></g>
</svg>`

func writeFixtures(t *testing.T, svg, ids string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	svgPath := filepath.Join(dir, "board.svg")
	idPath := filepath.Join(dir, "ids.json")
	require.NoError(t, os.WriteFile(svgPath, []byte(svg), 0o644))
	require.NoError(t, os.WriteFile(idPath, []byte(ids), 0o644))
	return svgPath, idPath
}

func TestRunWritesStdout(t *testing.T) {
	svgPath, idPath := writeFixtures(t, board, `{"t1":"ber"}`)

	var stdout, stderr bytes.Buffer
	code := run([]string{svgPath, idPath}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var m models.Map
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &m))
	require.Len(t, m.Provinces, 1)
	assert.Equal(t, "ber", m.Provinces[0].ID)
	require.Len(t, m.Provinces[0].Text, 1)
	assert.Equal(t, "BER", m.Provinces[0].Text[0].Value)
	assert.Contains(t, stdout.String(), "\n  \"width\": 100")
}

func TestRunWritesOutputFile(t *testing.T) {
	svgPath, idPath := writeFixtures(t, board, `{}`)
	outPath := filepath.Join(t.TempDir(), "map.yaml")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-format", "yaml", svgPath, idPath, outPath}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var m models.Map
	require.NoError(t, yaml.Unmarshal(data, &m))
	assert.Equal(t, 100.0, m.Width)
	require.Len(t, m.Provinces, 1)
	assert.Equal(t, "ber", m.Provinces[0].ID)
	assert.Empty(t, m.Provinces[0].Text)
}

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"only.svg"}, {"a", "b", "c", "d"}} {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 2, run(args, &stdout, &stderr))
		assert.Contains(t, stderr.String(), "usage: mapextract")
		assert.Empty(t, stdout.String())
	}
}

func TestRunUnknownFormat(t *testing.T) {
	svgPath, idPath := writeFixtures(t, board, `{}`)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-format", "xml", svgPath, idPath}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "unknown output format")
}

func TestRunExtractionFailure(t *testing.T) {
	svgPath, idPath := writeFixtures(t, `<svg><g id="provinces"/></svg>`, `{}`)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{svgPath, idPath}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "error:")
	assert.Contains(t, stderr.String(), "viewBox")
	assert.Empty(t, stdout.String())
}

func TestRunMissingFiles(t *testing.T) {
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{filepath.Join(dir, "none.svg"), filepath.Join(dir, "none.json")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "error:")
}

type failingClose struct {
	bytes.Buffer
}

func (*failingClose) Close() error {
	return errors.New("disk quota exceeded")
}

func TestRunReportsCloseFailure(t *testing.T) {
	svgPath, idPath := writeFixtures(t, board, `{}`)

	dst := &failingClose{}
	old := createOutput
	createOutput = func(string) (io.WriteCloser, error) { return dst, nil }
	t.Cleanup(func() { createOutput = old })

	var stdout, stderr bytes.Buffer
	code := run([]string{svgPath, idPath, "map.json"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "close output: disk quota exceeded")
	assert.NotEmpty(t, dst.String())
}

func TestRunReportsWriteFailure(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full")
	}
	svgPath, idPath := writeFixtures(t, board, `{}`)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{svgPath, idPath, "/dev/full"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "write output")
}
