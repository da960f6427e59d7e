package billing

import (
	"fmt"

	"github.com/rentora/rentora/internal/domain"
)

// Catalog maps gateway plan identifiers to the plans landlords can buy.
type Catalog map[string]domain.Plan

// DefaultCatalog returns the built-in plan tiers.
func DefaultCatalog() Catalog {
	return Catalog{
		"basic":    {Name: "basic", UnitLimit: 5},
		"standard": {Name: "standard", UnitLimit: 20},
		"premium":  {Name: "premium", UnitLimit: 100},
	}
}

// Resolve looks up a plan by its gateway identifier.
func (c Catalog) Resolve(planID string) (domain.Plan, error) {
	plan, ok := c[planID]
	if !ok {
		return domain.Plan{}, fmt.Errorf("billing.Catalog.Resolve: %q: %w", planID, domain.ErrUnknownPlan)
	}
	return plan, nil
}
