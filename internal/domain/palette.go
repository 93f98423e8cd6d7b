package domain

// Palette holds one stroke color per prefecture position.
var Palette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231", "#911eb4", "#46f0f0", "#f032e6",
	"#bcf60c", "#fabebe", "#008080", "#e6beff", "#9a6324", "#fffac8", "#800000", "#aaffc3",
	"#808000", "#ffd8b1", "#000075", "#808080", "#1f77b4", "#ff7f0e", "#2ca02c", "#d62728",
	"#9467bd", "#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf", "#393b79", "#637939",
	"#8c6d31", "#843c39", "#7b4173", "#3182bd", "#e6550d", "#31a354", "#756bb1", "#636363",
	"#6baed6", "#fd8d3c", "#74c476", "#9e9ac8", "#969696", "#c49c94", "#f7b6d2",
}

// StrokeAt returns the palette entry at i, or "" when i is out of range.
func StrokeAt(i int) string {
	if i < 0 || i >= len(Palette) {
		return ""
	}
	return Palette[i]
}
