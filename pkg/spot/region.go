package spot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rackerlabs/rsspot/pkg/errors"
)

const regionsPath = "/apis/ngpc.rxt.io/v1/regions"

// Region is one provider region.
type Region struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// RegionsService exposes the region API operations.
type RegionsService struct {
	transport *transport
}

// List returns all provider regions.
func (s *RegionsService) List(ctx context.Context) ([]Region, error) {
	raw, err := s.transport.requestJSON(ctx, http.MethodGet, regionsPath, nil, nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Items []struct {
			Metadata struct {
				Name string `json:"name"`
			} `json:"metadata"`
			Spec struct {
				Description string `json:"description"`
			} `json:"spec"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "cannot decode region listing", err)
	}

	out := make([]Region, 0, len(response.Items))
	for _, item := range response.Items {
		out = append(out, Region{
			Name:        item.Metadata.Name,
			Description: item.Spec.Description,
		})
	}
	return out, nil
}

// Get returns one region by name. The API has no single-region endpoint,
// so this filters the listing.
func (s *RegionsService) Get(ctx context.Context, name string) (*Region, error) {
	regions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range regions {
		if strings.EqualFold(r.Name, name) {
			return &r, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("region not found: %s", name))
}
