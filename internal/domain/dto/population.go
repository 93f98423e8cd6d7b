package dto

import (
	"github.com/ougirez/popchart/internal/domain"
	"github.com/shopspring/decimal"
)

// Prefecture is one entry of GET prefectures.
type Prefecture struct {
	PrefCode int    `json:"prefCode" validate:"required,min=1"`
	PrefName string `json:"prefName" validate:"required"`
}

type PrefecturesResponse struct {
	Message *string      `json:"message"`
	Result  []Prefecture `json:"result" validate:"required,dive"`
}

type PopulationDataWithRate struct {
	Year  domain.Year      `json:"year" validate:"required"`
	Value *int64           `json:"value" validate:"required"`
	Rate  *decimal.Decimal `json:"rate,omitempty"`
}

type PopulationComposition struct {
	Label string                   `json:"label" validate:"required"`
	Data  []PopulationDataWithRate `json:"data" validate:"required,dive"`
}

type CompositionResult struct {
	BoundaryYear int                     `json:"boundaryYear"`
	Data         []PopulationComposition `json:"data" validate:"required,dive"`
}

// CompositionResponse is the body of GET population/composition/perYear.
type CompositionResponse struct {
	Message *string            `json:"message"`
	Result  *CompositionResult `json:"result" validate:"required"`
}

// ToComposition reduces the label/data list into a mapping keyed by label.
// A repeated label keeps the last entry.
func (r *CompositionResponse) ToComposition() domain.Composition {
	composition := make(domain.Composition, len(r.Result.Data))
	for _, item := range r.Result.Data {
		records := make([]domain.PopulationRecord, 0, len(item.Data))
		for _, d := range item.Data {
			record := domain.PopulationRecord{Year: d.Year, Value: *d.Value}
			if d.Rate != nil {
				record.Rate = *d.Rate
			}
			records = append(records, record)
		}
		composition[domain.StatCategory(item.Label)] = records
	}
	return composition
}

// Regions converts the response into unselected regions in list order.
// Stroke colors are assigned by position.
func (r *PrefecturesResponse) Regions() []domain.Region {
	regions := make([]domain.Region, 0, len(r.Result))
	for i, p := range r.Result {
		regions = append(regions, domain.Region{
			Code:        p.PrefCode,
			Name:        p.PrefName,
			StrokeColor: domain.StrokeAt(i),
		})
	}
	return regions
}
