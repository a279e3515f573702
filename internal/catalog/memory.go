package catalog

import (
	"context"
	"strings"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// Memory is an in-memory catalog source backed by a fixed product slice.
// Used by tests and by offline fixture mode.
type Memory struct {
	products []model.Product
}

var _ Source = (*Memory)(nil)

// NewMemory creates a memory source over the given products.
func NewMemory(products []model.Product) *Memory {
	return &Memory{products: products}
}

func (m *Memory) All(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *Memory) ByCodes(_ context.Context, codes []string) ([]model.Product, error) {
	want := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		want[c] = struct{}{}
	}

	var out []model.Product
	for _, p := range m.products {
		if _, ok := want[p.Code]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) SearchName(_ context.Context, fragment, category string) (*model.Product, error) {
	frag := strings.ToLower(fragment)
	for _, p := range m.products {
		if category != "" && p.Category != category {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), frag) {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}
