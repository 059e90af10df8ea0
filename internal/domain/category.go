package domain

// CategoryKind distinguishes the two order flows.
type CategoryKind string

const (
	KindRide     CategoryKind = "RIDE"
	KindDelivery CategoryKind = "DELIVERY"
)

// CategoryTier represents the pricing tier within a kind.
type CategoryTier string

const (
	// Ride tiers.
	TierEconomy CategoryTier = "ECONOMY"
	TierComfort CategoryTier = "COMFORT"
	TierPremium CategoryTier = "PREMIUM"

	// Delivery tiers.
	TierDocument CategoryTier = "DOCUMENT"
	TierSmall    CategoryTier = "SMALL"
	TierMedium   CategoryTier = "MEDIUM"
	TierLarge    CategoryTier = "LARGE"
)

// Category identifies what is being ordered and at which pricing tier.
type Category struct {
	Kind CategoryKind
	Tier CategoryTier
}

// Well-known categories.
var (
	RideEconomy = Category{Kind: KindRide, Tier: TierEconomy}
	RideComfort = Category{Kind: KindRide, Tier: TierComfort}
	RidePremium = Category{Kind: KindRide, Tier: TierPremium}

	DeliveryDocument = Category{Kind: KindDelivery, Tier: TierDocument}
	DeliverySmall    = Category{Kind: KindDelivery, Tier: TierSmall}
	DeliveryMedium   = Category{Kind: KindDelivery, Tier: TierMedium}
	DeliveryLarge    = Category{Kind: KindDelivery, Tier: TierLarge}
)

var rideTiers = map[CategoryTier]bool{
	TierEconomy: true,
	TierComfort: true,
	TierPremium: true,
}

var deliveryTiers = map[CategoryTier]bool{
	TierDocument: true,
	TierSmall:    true,
	TierMedium:   true,
	TierLarge:    true,
}

// Valid reports whether the tier belongs to the kind.
func (c Category) Valid() bool {
	switch c.Kind {
	case KindRide:
		return rideTiers[c.Tier]
	case KindDelivery:
		return deliveryTiers[c.Tier]
	default:
		return false
	}
}

// String returns the category in KIND/TIER form, e.g. "RIDE/ECONOMY".
func (c Category) String() string {
	return string(c.Kind) + "/" + string(c.Tier)
}
