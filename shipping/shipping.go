// Package shipping computes delivery costs from shipment weight and
// destination. The order core treats it as an opaque collaborator.
package shipping

import (
	"fmt"

	"github.com/storefront-go/storefront/config"
)

// Calculator prices a shipment. Weight is grams, the result cents.
type Calculator interface {
	Cost(weight int, country string) (int, error)
}

// TableCalculator is the default rate table: a base fee plus a per-kg fee
// (started kilograms), multiplied for international destinations. An empty
// country is priced as domestic.
type TableCalculator struct {
	cfg config.Shipping
}

func NewTableCalculator(cfg config.Shipping) *TableCalculator {
	return &TableCalculator{cfg: cfg}
}

func (c *TableCalculator) Cost(weight int, country string) (int, error) {
	if weight < 0 {
		return 0, fmt.Errorf("negative shipment weight %d", weight)
	}

	kg := weight / 1000
	if weight%1000 != 0 {
		kg++
	}

	cost := c.cfg.BaseCost + kg*c.cfg.CostPerKg

	if country != "" && country != c.cfg.DomesticCountry {
		cost *= c.cfg.IntlMultiplier
	}

	return cost, nil
}
