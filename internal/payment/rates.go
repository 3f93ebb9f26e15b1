package payment

import "context"

// RateProvider is the port to the external pricing collaborator.
type RateProvider interface {
	CurrentRate(ctx context.Context) (float64, error)
}

// StaticRateProvider serves a fixed QZ exchange rate from configuration.
type StaticRateProvider struct {
	Rate float64
}

func NewStaticRateProvider(rate float64) *StaticRateProvider {
	return &StaticRateProvider{Rate: rate}
}

func (p *StaticRateProvider) CurrentRate(ctx context.Context) (float64, error) {
	return p.Rate, nil
}
