package spot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rackerlabs/rsspot/pkg/errors"
)

const serverClassesPath = "/apis/ngpc.rxt.io/v1/serverclasses"

// AvailabilityAvailable marks server classes that can be bid on.
const AvailabilityAvailable = "available"

// ServerClass is the flattened view of one purchasable server class.
// Price and resource fields stay strings as the API reports them; the
// pricing engine normalizes units.
type ServerClass struct {
	Name                 string `json:"name" yaml:"name"`
	DisplayName          string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Category             string `json:"category,omitempty" yaml:"category,omitempty"`
	Region               string `json:"region" yaml:"region"`
	Availability         string `json:"availability" yaml:"availability"`
	CPU                  string `json:"cpu" yaml:"cpu"`
	Memory               string `json:"memory" yaml:"memory"`
	MarketPricePerHour   string `json:"marketPricePerHour,omitempty" yaml:"marketPricePerHour,omitempty"`
	MinBidPricePerHour   string `json:"minBidPricePerHour,omitempty" yaml:"minBidPricePerHour,omitempty"`
	OnDemandPricePerHour string `json:"onDemandPricePerHour,omitempty" yaml:"onDemandPricePerHour,omitempty"`
}

// Available reports whether the class accepts bids.
func (s ServerClass) Available() bool {
	return s.Availability == AvailabilityAvailable
}

// serverClassItem mirrors the API resource envelope.
type serverClassItem struct {
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Spec struct {
		DisplayName  string `json:"displayName"`
		Category     string `json:"category"`
		Region       string `json:"region"`
		Availability string `json:"availability"`
		Resources    struct {
			CPU    string `json:"cpu"`
			Memory string `json:"memory"`
		} `json:"resources"`
		MinBidPricePerHour string `json:"minBidPricePerHour"`
		OnDemandPricing    *struct {
			Cost string `json:"cost"`
		} `json:"onDemandPricing"`
	} `json:"spec"`
	Status *struct {
		SpotPricing *struct {
			MarketPricePerHour string `json:"marketPricePerHour"`
		} `json:"spotPricing"`
	} `json:"status"`
}

func (i serverClassItem) flatten() ServerClass {
	sc := ServerClass{
		Name:               i.Metadata.Name,
		DisplayName:        i.Spec.DisplayName,
		Category:           i.Spec.Category,
		Region:             i.Spec.Region,
		Availability:       i.Spec.Availability,
		CPU:                i.Spec.Resources.CPU,
		Memory:             i.Spec.Resources.Memory,
		MinBidPricePerHour: dollarPrice(i.Spec.MinBidPricePerHour),
	}
	if i.Spec.OnDemandPricing != nil {
		sc.OnDemandPricePerHour = dollarPrice(i.Spec.OnDemandPricing.Cost)
	}
	if i.Status != nil && i.Status.SpotPricing != nil {
		sc.MarketPricePerHour = dollarPrice(i.Status.SpotPricing.MarketPricePerHour)
	}
	return sc
}

// dollarPrice normalizes API price strings to a $-prefixed form.
func dollarPrice(v string) string {
	if v == "" || strings.HasPrefix(v, "$") {
		return v
	}
	return "$" + v
}

// ServerClassesService exposes the server class API operations.
type ServerClassesService struct {
	transport *transport
}

// ListOptions filter the server class listing. The API returns all
// regions; filtering happens client side.
type ListOptions struct {
	// Region keeps only classes sold in the given region when non-empty.
	Region string

	// IncludeUnavailable keeps classes that cannot currently be bid on.
	IncludeUnavailable bool
}

// List returns server classes, filtered per opts.
func (s *ServerClassesService) List(ctx context.Context, opts ListOptions) ([]ServerClass, error) {
	raw, err := s.transport.requestJSON(ctx, http.MethodGet, serverClassesPath, nil, nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Items []serverClassItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "cannot decode server class listing", err)
	}

	out := make([]ServerClass, 0, len(response.Items))
	for _, item := range response.Items {
		sc := item.flatten()
		if opts.Region != "" && !strings.EqualFold(sc.Region, opts.Region) {
			continue
		}
		if !opts.IncludeUnavailable && !sc.Available() {
			continue
		}
		out = append(out, sc)
	}
	return out, nil
}

// Get returns a single server class by name.
func (s *ServerClassesService) Get(ctx context.Context, name string) (*ServerClass, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "server class name is required")
	}

	raw, err := s.transport.requestJSON(ctx, http.MethodGet,
		serverClassesPath+"/"+url.PathEscape(name), nil, nil)
	if err != nil {
		return nil, err
	}

	var item serverClassItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("cannot decode server class %s", name), err)
	}
	sc := item.flatten()
	return &sc, nil
}
