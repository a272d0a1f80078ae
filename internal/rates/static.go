package rates

import (
	"context"

	"github.com/isomaug/impelatradingcc/internal/domain"
)

// StaticProvider serves a fixed table. It backs deployments without an
// upstream rates endpoint and keeps tests hermetic.
type StaticProvider struct {
	table domain.RateTable
}

func NewStaticProvider(table domain.RateTable) *StaticProvider {
	return &StaticProvider{table: table}
}

func (p *StaticProvider) Fetch(_ context.Context) (domain.RateTable, error) {
	return p.table.Clone(), nil
}
