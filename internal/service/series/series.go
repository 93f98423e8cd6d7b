package series

import (
	"github.com/ougirez/popchart/internal/domain"
)

// Line is one plotted region: its values in row order and the color it owns.
type Line struct {
	Name   string
	Stroke string
	Years  []domain.Year
	Values []int64
}

type plotted struct {
	name    string
	stroke  string
	records []domain.PopulationRecord
}

// BuildRows projects the selected regions onto one row per year of category.
// Years follow the first plotted region. Other regions contribute the record at
// the same position when its year matches, otherwise the record with that year,
// otherwise nothing.
func BuildRows(regions []domain.Region, category domain.StatCategory) []domain.GraphRow {
	var selected []plotted
	for _, r := range regions {
		if !r.Selected || r.Composition == nil {
			continue
		}
		selected = append(selected, plotted{
			name:    r.Name,
			stroke:  r.StrokeColor,
			records: r.Composition[category],
		})
	}

	rows := make([]domain.GraphRow, 0)
	if len(selected) == 0 {
		return rows
	}

	columns := make([]string, 0, len(selected))
	for _, p := range selected {
		columns = append(columns, p.name)
	}

	first := selected[0]
	for i, record := range first.records {
		row := domain.GraphRow{
			Year:    record.Year,
			Stroke:  first.stroke,
			Columns: columns,
			Values:  make(map[string]int64, len(selected)),
		}
		row.Values[first.name] = record.Value

		for _, other := range selected[1:] {
			if v, ok := lookup(other.records, i, record.Year); ok {
				row.Values[other.name] = v
			}
		}

		rows = append(rows, row)
	}

	return rows
}

func lookup(records []domain.PopulationRecord, i int, year domain.Year) (int64, bool) {
	if i < len(records) && records[i].Year == year {
		return records[i].Value, true
	}
	for _, r := range records {
		if r.Year == year {
			return r.Value, true
		}
	}
	return 0, false
}

// Lines turns rows into one line per column, colored by the region owning the column.
func Lines(rows []domain.GraphRow, regions []domain.Region) []Line {
	if len(rows) == 0 {
		return nil
	}

	strokes := make(map[string]string, len(regions))
	for _, r := range regions {
		strokes[r.Name] = r.StrokeColor
	}

	lines := make([]Line, 0, len(rows[0].Columns))
	for _, name := range rows[0].Columns {
		line := Line{Name: name, Stroke: strokes[name]}
		for _, row := range rows {
			v, ok := row.Value(name)
			if !ok {
				continue
			}
			line.Years = append(line.Years, row.Year)
			line.Values = append(line.Values, v)
		}
		lines = append(lines, line)
	}

	return lines
}
