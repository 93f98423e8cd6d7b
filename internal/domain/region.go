package domain

import (
	"github.com/shopspring/decimal"
)

type Year = int

// StatCategory is one of the fixed population statistic labels served upstream.
type StatCategory string

const (
	CategoryTotal      StatCategory = "総人口"
	CategoryYouth      StatCategory = "年少人口"
	CategoryWorkingAge StatCategory = "生産年齢人口"
	CategoryElderly    StatCategory = "老年人口"
)

// StatCategories lists the selectable categories in display order.
var StatCategories = []StatCategory{
	CategoryTotal,
	CategoryYouth,
	CategoryWorkingAge,
	CategoryElderly,
}

const DefaultCategory = CategoryTotal

func (c StatCategory) Valid() bool {
	for _, known := range StatCategories {
		if c == known {
			return true
		}
	}
	return false
}

type PopulationRecord struct {
	Year  Year            `json:"year"`
	Value int64           `json:"value"`
	Rate  decimal.Decimal `json:"rate"`
}

// Composition maps a statistic category to its per-year records, ordered as served.
type Composition map[StatCategory][]PopulationRecord

func (c Composition) Clone() Composition {
	if c == nil {
		return nil
	}
	res := make(Composition, len(c))
	for label, records := range c {
		res[label] = append([]PopulationRecord(nil), records...)
	}
	return res
}

type Region struct {
	Code        int         `json:"code"`
	Name        string      `json:"name"`
	Selected    bool        `json:"selected"`
	StrokeColor string      `json:"strokeColor,omitempty"`
	Composition Composition `json:"composition"`
}

func (r Region) Clone() Region {
	r.Composition = r.Composition.Clone()
	return r
}

// ViewState is a point-in-time copy of everything the dashboard renders from.
type ViewState struct {
	Regions        []Region     `json:"regions"`
	Loading        bool         `json:"loading"`
	ActiveCategory StatCategory `json:"activeCategory"`
	LastError      string       `json:"lastError,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
