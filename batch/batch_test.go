package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-filters/images"
	"github.com/nvr-ai/go-filters/images/kernels"
	"github.com/nvr-ai/go-filters/profiler"
	"github.com/nvr-ai/go-filters/surface"
	"github.com/nvr-ai/go-filters/util"
)

func encodedSquare(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRunnerRun(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	p := profiler.New(0)
	r, err := NewRunner(Options{
		Filter:      surface.FilterShadow,
		Radius:      2,
		Kernel:      kernels.Options{Edge: kernels.EdgeRow},
		OutputDir:   outDir,
		MaxWidth:    16,
		Concurrency: 2,
	}, p)
	require.NoError(t, err)

	files := []util.ImageFile{
		{Path: "in/a.png", Data: encodedSquare(t, 32, 16), Frame: -1},
		{Path: "in/b.png", Data: encodedSquare(t, 8, 8), Frame: -1},
		{Path: "in/broken.png", Data: []byte("nope"), Frame: -1},
	}
	results, err := r.Run(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Empty(t, results[0].Error)
	assert.Equal(t, 16, results[0].Width)
	assert.Equal(t, 8, results[0].Height)
	assert.Equal(t, filepath.Join(outDir, "a-shadow.png"), results[0].Output)
	_, err = uuid.Parse(results[0].JobID)
	assert.NoError(t, err)
	assert.NotEqual(t, results[0].JobID, results[1].JobID)

	data, err := os.ReadFile(results[1].Output)
	require.NoError(t, err)
	decoded, info, err := images.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, images.FormatPNG, info.Format)
	// Opaque input: the shadow is an opaque black silhouette.
	r0, g0, b0, a0 := decoded.At(4, 4).RGBA()
	assert.Equal(t, [4]uint32{0, 0, 0, 0xffff}, [4]uint32{r0, g0, b0, a0})

	assert.NotEmpty(t, results[2].Error)
	assert.Empty(t, results[2].Output)

	var names []string
	for _, op := range p.Operations() {
		names = append(names, op.Name)
	}
	assert.Contains(t, names, "shadow")
	assert.Contains(t, names, "decode")

	path, err := r.SaveSummary()
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var summary struct {
		Options Options  `json:"options"`
		Results []Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.Equal(t, surface.FilterShadow, summary.Options.Filter)
	assert.Len(t, summary.Results, 3)
}

func TestRunnerCancelled(t *testing.T) {
	r, err := NewRunner(Options{Filter: surface.FilterBlur, Radius: 1, OutputDir: t.TempDir()}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, []util.ImageFile{{Path: "x.png", Data: encodedSquare(t, 4, 4)}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunnerValidates(t *testing.T) {
	_, err := NewRunner(Options{Filter: surface.FilterBlur, Radius: 0}, nil)
	assert.ErrorIs(t, err, kernels.ErrInvalidRadius)

	_, err = NewRunner(Options{Filter: surface.FilterBlur, Radius: 1, Kernel: kernels.Options{Workers: -1}}, nil)
	assert.ErrorIs(t, err, kernels.ErrInvalidOptions)
}
