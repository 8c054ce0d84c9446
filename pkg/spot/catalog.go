package spot

import (
	"context"

	"github.com/rackerlabs/rsspot/pkg/pricing"
	"golang.org/x/sync/errgroup"
)

// PricingService sources pricing data from the server class APIs and
// shapes it for the recommendation engine.
type PricingService struct {
	classes *ServerClassesService
}

// PriceDetails is the per-class pricing projection shown by the CLI.
type PriceDetails struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Region      string `json:"region" yaml:"region"`
	MarketPrice string `json:"marketPrice,omitempty" yaml:"marketPrice,omitempty"`
	CPU         string `json:"cpu" yaml:"cpu"`
	Memory      string `json:"memory" yaml:"memory"`
}

// List returns pricing details for available server classes, optionally
// restricted to one region.
func (s *PricingService) List(ctx context.Context, region string) ([]PriceDetails, error) {
	classes, err := s.classes.List(ctx, ListOptions{Region: region})
	if err != nil {
		return nil, err
	}

	out := make([]PriceDetails, 0, len(classes))
	for _, sc := range classes {
		out = append(out, toPriceDetails(sc))
	}
	return out, nil
}

// Get returns pricing details for a single server class.
func (s *PricingService) Get(ctx context.Context, name string) (*PriceDetails, error) {
	sc, err := s.classes.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	details := toPriceDetails(*sc)
	return &details, nil
}

// Catalog fetches the live offering catalog as raw records for the
// recommendation engine. With no regions given it pulls the full listing;
// otherwise it fans out one listing per region and merges the results in
// the order the regions were requested.
func (s *PricingService) Catalog(ctx context.Context, regions ...string) ([]pricing.Record, error) {
	if len(regions) == 0 {
		classes, err := s.classes.List(ctx, ListOptions{})
		if err != nil {
			return nil, err
		}
		return toRecords(classes), nil
	}

	// Each goroutine writes its own slot, so no locking is needed.
	perRegion := make([][]ServerClass, len(regions))

	g, gctx := errgroup.WithContext(ctx)
	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			classes, err := s.classes.List(gctx, ListOptions{Region: region})
			if err != nil {
				return err
			}
			perRegion[i] = classes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []ServerClass
	for _, classes := range perRegion {
		merged = append(merged, classes...)
	}
	return toRecords(merged), nil
}

func toPriceDetails(sc ServerClass) PriceDetails {
	return PriceDetails{
		Name:        sc.Name,
		DisplayName: sc.DisplayName,
		Category:    sc.Category,
		Region:      sc.Region,
		MarketPrice: sc.MarketPricePerHour,
		CPU:         sc.CPU,
		Memory:      sc.Memory,
	}
}

func toRecords(classes []ServerClass) []pricing.Record {
	records := make([]pricing.Record, 0, len(classes))
	for _, sc := range classes {
		records = append(records, pricing.Record{
			"name":         sc.Name,
			"region":       sc.Region,
			"market_price": sc.MarketPricePerHour,
			"cpu":          sc.CPU,
			"memory":       sc.Memory,
		})
	}
	return records
}
