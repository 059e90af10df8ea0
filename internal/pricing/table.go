// Package pricing turns a distance and category into a priced quote.
// The tariff table is data, not logic: it can be replaced wholesale from a
// config file to support promotions or regional pricing.
package pricing

import (
	"fmt"

	"github.com/spf13/viper"

	"tripflow/internal/domain"
)

// Rate is the pricing tier for one category. Amounts are in minor currency
// units (e.g. paisa/cents).
type Rate struct {
	BaseFare int64 `mapstructure:"base_fare"`
	PerKm    int64 `mapstructure:"per_km"`
}

// Table maps categories to their rates.
type Table map[domain.Category]Rate

// DefaultTable returns the built-in tariffs used when no tariff file is
// configured.
func DefaultTable() Table {
	return Table{
		domain.RideEconomy: {BaseFare: 20000, PerKm: 8000},
		domain.RideComfort: {BaseFare: 30000, PerKm: 11000},
		domain.RidePremium: {BaseFare: 50000, PerKm: 16000},

		domain.DeliveryDocument: {BaseFare: 15000, PerKm: 5000},
		domain.DeliverySmall:    {BaseFare: 20000, PerKm: 6000},
		domain.DeliveryMedium:   {BaseFare: 30000, PerKm: 8000},
		domain.DeliveryLarge:    {BaseFare: 45000, PerKm: 12000},
	}
}

// tariffEntry is the on-disk shape of one tariff line.
type tariffEntry struct {
	Kind     string `mapstructure:"kind"`
	Tier     string `mapstructure:"tier"`
	BaseFare int64  `mapstructure:"base_fare"`
	PerKm    int64  `mapstructure:"per_km"`
}

// LoadTable reads a tariff table from the given file (any format viper
// understands; keyed by a top-level "tariffs" list). Entries replace the
// defaults per category, so a partial file overrides only what it names.
func LoadTable(path string) (Table, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read tariff file: %w", err)
	}

	var entries []tariffEntry
	if err := v.UnmarshalKey("tariffs", &entries); err != nil {
		return nil, fmt.Errorf("parse tariff file: %w", err)
	}

	table := DefaultTable()
	for i, e := range entries {
		cat := domain.Category{
			Kind: domain.CategoryKind(e.Kind),
			Tier: domain.CategoryTier(e.Tier),
		}
		if !cat.Valid() {
			return nil, fmt.Errorf("tariff entry %d: unknown category %s/%s", i, e.Kind, e.Tier)
		}
		if e.BaseFare < 0 || e.PerKm < 0 {
			return nil, fmt.Errorf("tariff entry %d: negative rate for %s", i, cat)
		}
		table[cat] = Rate{BaseFare: e.BaseFare, PerKm: e.PerKm}
	}

	return table, nil
}
