package domain

const (
	CategoryRoad           = "road"
	CategoryWater          = "water"
	CategoryElectricity    = "electricity"
	CategoryGarbage        = "garbage"
	CategoryPark           = "park"
	CategoryLighting       = "lighting"
	CategoryTransportation = "transportation"
	CategoryOther          = "other"
)

var knownCategories = map[string]struct{}{
	CategoryRoad:           {},
	CategoryWater:          {},
	CategoryElectricity:    {},
	CategoryGarbage:        {},
	CategoryPark:           {},
	CategoryLighting:       {},
	CategoryTransportation: {},
	CategoryOther:          {},
}

// IsKnownCategory reports whether the category name is accepted.
func IsKnownCategory(category string) bool {
	_, ok := knownCategories[category]
	return ok
}

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

var knownSeverities = map[string]struct{}{
	SeverityLow:      {},
	SeverityMedium:   {},
	SeverityHigh:     {},
	SeverityCritical: {},
}

// IsKnownSeverity reports whether the severity name is accepted.
func IsKnownSeverity(severity string) bool {
	_, ok := knownSeverities[severity]
	return ok
}
