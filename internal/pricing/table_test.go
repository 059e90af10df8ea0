package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"tripflow/internal/domain"
)

func writeTariffFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tariffs.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write tariff file: %v", err)
	}
	return path
}

func TestLoadTable_OverridesOnlyNamedEntries(t *testing.T) {
	t.Parallel()

	path := writeTariffFile(t, `
tariffs:
  - kind: RIDE
    tier: ECONOMY
    base_fare: 10000
    per_km: 4000
`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := table[domain.RideEconomy]; got.BaseFare != 10000 || got.PerKm != 4000 {
		t.Errorf("overridden rate = %+v, want {10000 4000}", got)
	}

	// Untouched categories keep the defaults.
	def := DefaultTable()[domain.DeliverySmall]
	if got := table[domain.DeliverySmall]; got != def {
		t.Errorf("DELIVERY/SMALL rate = %+v, want default %+v", got, def)
	}
}

func TestLoadTable_RejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	path := writeTariffFile(t, `
tariffs:
  - kind: RIDE
    tier: GOLD
    base_fare: 1
    per_km: 1
`)

	if _, err := LoadTable(path); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestLoadTable_RejectsNegativeRates(t *testing.T) {
	t.Parallel()

	path := writeTariffFile(t, `
tariffs:
  - kind: DELIVERY
    tier: LARGE
    base_fare: -5
    per_km: 1
`)

	if _, err := LoadTable(path); err == nil {
		t.Error("expected error for negative rate")
	}
}

func TestLoadTable_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadTable(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
