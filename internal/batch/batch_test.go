package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscan/expiryocr/internal/pipeline"
	"github.com/shelfscan/expiryocr/internal/testutil"
)

func writeTestImage(t *testing.T, path string) {
	t.Helper()
	img := testutil.GenerateTextImage(testutil.DefaultTextImageConfig())
	require.NoError(t, imaging.Save(img, path))
}

func buildPipeline(t *testing.T, rec *testutil.FakeRecognizer) *pipeline.Pipeline {
	t.Helper()
	b := pipeline.NewBuilder().WithVariantWorkers(1)
	if rec != nil {
		b = b.WithRecognizer(rec)
	}
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

func TestDiscoverImageFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	writeTestImage(t, filepath.Join(dir, "b.png"))
	writeTestImage(t, filepath.Join(dir, "a.jpg"))
	writeTestImage(t, filepath.Join(sub, "c.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	cfg := DefaultConfig()
	files, err := DiscoverImageFiles([]string{dir}, cfg)
	require.NoError(t, err)
	require.Len(t, files, 2, "non-recursive discovery skips subdirectories and non-images")
	assert.Equal(t, filepath.Join(dir, "a.jpg"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.png"), files[1])

	cfg.Recursive = true
	files, err = DiscoverImageFiles([]string{dir}, cfg)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestDiscoverIncludeExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, filepath.Join(dir, "shelf_01.png"))
	writeTestImage(t, filepath.Join(dir, "shelf_02.png"))
	writeTestImage(t, filepath.Join(dir, "debug.png"))

	cfg := DefaultConfig()
	cfg.IncludePatterns = []string{"shelf_*.png"}
	files, err := DiscoverImageFiles([]string{dir}, cfg)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	cfg = DefaultConfig()
	cfg.ExcludePatterns = []string{"debug.*"}
	files, err = DiscoverImageFiles([]string{dir}, cfg)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscoverExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.png")
	writeTestImage(t, path)

	files, err := DiscoverImageFiles([]string{path}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)

	_, err = DiscoverImageFiles([]string{filepath.Join(dir, "missing.png")}, DefaultConfig())
	assert.Error(t, err)
}

func TestRunContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writeTestImage(t, good)

	// A .png that is not a PNG: decoding fails, the run continues.
	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not an image"), 0o644))

	p := buildPipeline(t, testutil.NewFakeRecognizer())
	cfg := DefaultConfig()
	cfg.Workers = 1

	res, err := Run(context.Background(), p, []string{corrupt, good}, cfg)
	require.NoError(t, err)
	require.Len(t, res.Files, 2)

	assert.Equal(t, corrupt, res.Files[0].Path)
	assert.NotEmpty(t, res.Files[0].Err)
	assert.Nil(t, res.Files[0].Result)

	assert.Equal(t, good, res.Files[1].Path)
	assert.Empty(t, res.Files[1].Err)
	require.NotNil(t, res.Files[1].Result)

	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.WorkerCount)
}

func TestRunPreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 4)
	for i := range paths {
		paths[i] = filepath.Join(dir, string(rune('a'+i))+".png")
		writeTestImage(t, paths[i])
	}

	p := buildPipeline(t, testutil.NewFakeRecognizer())
	cfg := DefaultConfig()
	cfg.Workers = 3

	res, err := Run(context.Background(), p, paths, cfg)
	require.NoError(t, err)
	require.Len(t, res.Files, len(paths))
	for i, f := range res.Files {
		assert.Equal(t, paths[i], f.Path, "results must come back in input order")
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	p := buildPipeline(t, testutil.NewFakeRecognizer())
	cfg := DefaultConfig()
	cfg.Format = "csv"
	_, err := Run(context.Background(), p, nil, cfg)
	assert.Error(t, err)
}

func TestFormatResults(t *testing.T) {
	res := &Result{
		Files: []FileResult{
			{Path: "a.png", Result: &pipeline.Result{Text: "VAL 12/2026", Confidence: 0.9}},
			{Path: "b.png", Err: "decode failed"},
		},
		WorkerCount: 2,
		Failed:      1,
	}

	text, err := formatResults(res, "text")
	require.NoError(t, err)
	assert.Contains(t, text, `a.png: "VAL 12/2026" (confidence 0.90)`)
	assert.Contains(t, text, "b.png: ERROR: decode failed")

	jsonOut, err := formatResults(res, "json")
	require.NoError(t, err)
	assert.Contains(t, jsonOut, `"path": "a.png"`)
	assert.Contains(t, jsonOut, `"failed": 1`)

	yamlOut, err := formatResults(res, "yaml")
	require.NoError(t, err)
	assert.Contains(t, yamlOut, "path: a.png")
	assert.Contains(t, yamlOut, "error: decode failed")

	_, err = formatResults(res, "csv")
	assert.Error(t, err)
}

func TestSaveResultsToFile(t *testing.T) {
	res := &Result{Files: []FileResult{{Path: "a.png", Err: "boom"}}}
	out := filepath.Join(t.TempDir(), "results.json")

	require.NoError(t, res.SaveResults("json", out, true))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"error": "boom"`)
}
