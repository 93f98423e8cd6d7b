package chart

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/popchart/internal/service/series"
)

var testLines = []series.Line{
	{Name: "Hokkaido", Stroke: "#e6194b", Years: []int{1980, 1990, 2000}, Values: []int64{5575989, 5643647, 5683062}},
	{Name: "Aomori", Stroke: "#3cb44b", Years: []int{1980, 1990, 2000}, Values: []int64{1523907, 1482873, 1475728}},
}

func TestRenderPNG(t *testing.T) {
	r := NewRenderer(640, 320)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, FormatPNG, "総人口", testLines))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 320, cfg.Height)
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(0, 0).Render(&buf, FormatSVG, "総人口", testLines))

	out := buf.String()
	assert.True(t, strings.Contains(out, "<svg"))
	assert.Contains(t, out, "Hokkaido")
	assert.Equal(t, "image/svg+xml", FormatSVG.ContentType())
}

func TestRenderWithoutLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(320, 200).Render(&buf, FormatPNG, "総人口", nil))

	_, err := png.DecodeConfig(&buf)
	assert.NoError(t, err)
}

func TestRenderSinglePoint(t *testing.T) {
	lines := []series.Line{{Name: "Tokyo", Stroke: "#4363d8", Years: []int{2020}, Values: []int64{14047594}}}

	var buf bytes.Buffer
	assert.NoError(t, NewRenderer(320, 200).Render(&buf, FormatPNG, "", lines))
}

func TestRanges(t *testing.T) {
	x, y := ranges(testLines)
	assert.Equal(t, 1980.0, x.Min)
	assert.Equal(t, 2000.0, x.Max)
	assert.Zero(t, y.Min)
	assert.InDelta(t, 5683062*1.05, y.Max, 0.001)

	x, y = ranges([]series.Line{{Years: []int{2020}, Values: []int64{0}}})
	assert.Equal(t, 2019.0, x.Min)
	assert.Equal(t, 2021.0, x.Max)
	assert.Equal(t, 1.0, y.Max)
}

func TestFormatPopulation(t *testing.T) {
	assert.Equal(t, "1,234,567", NewRenderer(0, 0).FormatPopulation(1234567))
}
