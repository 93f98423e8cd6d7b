package domain

import (
	"bytes"
	"strconv"

	"github.com/bytedance/sonic"
)

// GraphRow is one plotted year. Columns holds region names in selection order
// and Values the population of each for the active category.
type GraphRow struct {
	Year    Year
	Stroke  string
	Columns []string
	Values  map[string]int64
}

func (r GraphRow) Value(name string) (int64, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// MarshalJSON flattens the row into {"year":…, "stroke":…, "<region>": value, …}.
func (r GraphRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"year":`)
	buf.WriteString(strconv.Itoa(r.Year))

	if r.Stroke != "" {
		stroke, err := sonic.Marshal(r.Stroke)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"stroke":`)
		buf.Write(stroke)
	}

	for _, name := range r.Columns {
		v, ok := r.Values[name]
		if !ok {
			continue
		}
		key, err := sonic.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(v, 10))
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
