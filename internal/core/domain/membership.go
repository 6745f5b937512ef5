package domain

// MembershipType is the subscription tier of a user.
type MembershipType string

const (
	MembershipFree    MembershipType = "free"
	MembershipPremium MembershipType = "premium"
)

// Premium eligibility thresholds. Either one is enough.
const (
	PremiumMinPurchases = 10
	PremiumMinSpent     = 500.0
)

// Discount tiers for premium members.
const (
	premiumBaseDiscount    = 0.15
	loyaltyDiscount        = 0.05
	highValueDiscount      = 0.05
	maxDiscount            = 0.30
	loyaltyMinPurchases    = 50
	highValueMinTotalSpent = 1000.0
)

// validUpgrades defines the membership transitions a user may request.
// Premium is terminal: there is no downgrade path.
var validUpgrades = map[MembershipType][]MembershipType{
	MembershipFree: {MembershipPremium},
}

// Valid reports whether m is a known membership type.
func (m MembershipType) Valid() bool {
	return m == MembershipFree || m == MembershipPremium
}

// CanUpgradeTo reports whether a member of type m may move to next.
func (m MembershipType) CanUpgradeTo(next MembershipType) bool {
	for _, allowed := range validUpgrades[m] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsUpgradeTarget reports whether some membership may be upgraded to t.
func IsUpgradeTarget(t MembershipType) bool {
	for _, targets := range validUpgrades {
		for _, allowed := range targets {
			if allowed == t {
				return true
			}
		}
	}
	return false
}

// Feature identifies a gated product capability.
type Feature string

const (
	FeatureBasicDashboard    Feature = "basic-dashboard"
	FeatureUserProfile       Feature = "user-profile"
	FeatureBasicReports      Feature = "basic-reports"
	FeatureAdvancedAnalytics Feature = "advanced-analytics"
	FeatureExportData        Feature = "export-data"
	FeaturePrioritySupport   Feature = "priority-support"
	FeatureCustomThemes      Feature = "custom-themes"
	FeatureAPIAccess         Feature = "api-access"
)

// featureCatalog lists every feature in display order.
var featureCatalog = []Feature{
	FeatureBasicDashboard,
	FeatureUserProfile,
	FeatureBasicReports,
	FeatureAdvancedAnalytics,
	FeatureExportData,
	FeaturePrioritySupport,
	FeatureCustomThemes,
	FeatureAPIAccess,
}

// premiumOnly is the set of features free members cannot use.
var premiumOnly = map[Feature]struct{}{
	FeatureAdvancedAnalytics: {},
	FeatureExportData:        {},
	FeaturePrioritySupport:   {},
	FeatureCustomThemes:      {},
	FeatureAPIAccess:         {},
}

// FeatureCatalog returns a copy of the full feature catalog.
func FeatureCatalog() []Feature {
	out := make([]Feature, len(featureCatalog))
	copy(out, featureCatalog)
	return out
}
