package bom

import (
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

type GuideSource interface {
	GetGuide(guideName string) ([]models.BomGuide, error)
}

// StockAggregator sums live stock for a code across every location.
type StockAggregator interface {
	AggregateStock(code string) (total int, name string, err error)
}

// Service is the guide sufficiency calculator. It is a pure read over the
// registry: no locks, no side effects, a deterministic snapshot per call.
type Service struct {
	guides GuideSource
	stocks StockAggregator
}

func NewService(guides GuideSource, stocks StockAggregator) *Service {
	return &Service{guides: guides, stocks: stocks}
}

// CheckGuide compares each component's required quantity against aggregate
// current stock. An unknown guide yields an empty report, not an error.
func (s *Service) CheckGuide(guideName string) ([]models.BomCheckResult, error) {
	rows, err := s.guides.GetGuide(guideName)
	if err != nil {
		return nil, err
	}

	results := make([]models.BomCheckResult, 0, len(rows))
	for _, row := range rows {
		current, name, err := s.stocks.AggregateStock(row.ItemCode)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = row.ItemCode
		}

		status := models.BomStatusOK
		if current < row.RequiredQuantity {
			status = models.BomStatusShortage
		}

		results = append(results, models.BomCheckResult{
			Code:    row.ItemCode,
			Name:    name,
			Needed:  row.RequiredQuantity,
			Current: current,
			Status:  status,
		})
	}

	return results, nil
}
