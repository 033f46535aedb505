package domain

// ServiceCategory identifies one of the fixed home-service categories.
type ServiceCategory string

const (
	CategoryACCleaning        ServiceCategory = "ac_cleaning"
	CategoryACRepair          ServiceCategory = "ac_repair"
	CategoryPlumbing          ServiceCategory = "plumbing"
	CategoryElectrical        ServiceCategory = "electrical"
	CategoryPainting          ServiceCategory = "painting"
	CategoryCarpentry         ServiceCategory = "carpentry"
	CategoryPestControl       ServiceCategory = "pest_control"
	CategoryDeepCleaning      ServiceCategory = "deep_cleaning"
	CategoryWaterTankCleaning ServiceCategory = "water_tank_cleaning"
	CategoryWaterHeater       ServiceCategory = "water_heater"
	CategoryApplianceRepair   ServiceCategory = "appliance_repair"
	CategoryLandscaping       ServiceCategory = "landscaping"
	CategoryPoolMaintenance   ServiceCategory = "pool_maintenance"
	CategoryHandyman          ServiceCategory = "handyman"
	CategoryFlooring          ServiceCategory = "flooring"
	CategoryMovingPacking     ServiceCategory = "moving_packing"
)

// AllCategories lists every service category. The pattern sync engine walks
// this list per homeowner.
var AllCategories = []ServiceCategory{
	CategoryACCleaning,
	CategoryACRepair,
	CategoryPlumbing,
	CategoryElectrical,
	CategoryPainting,
	CategoryCarpentry,
	CategoryPestControl,
	CategoryDeepCleaning,
	CategoryWaterTankCleaning,
	CategoryWaterHeater,
	CategoryApplianceRepair,
	CategoryLandscaping,
	CategoryPoolMaintenance,
	CategoryHandyman,
	CategoryFlooring,
	CategoryMovingPacking,
}

var categoryLabels = map[ServiceCategory]string{
	CategoryACCleaning:        "AC cleaning",
	CategoryACRepair:          "AC repair",
	CategoryPlumbing:          "plumbing",
	CategoryElectrical:        "electrical work",
	CategoryPainting:          "painting",
	CategoryCarpentry:         "carpentry",
	CategoryPestControl:       "pest control",
	CategoryDeepCleaning:      "deep cleaning",
	CategoryWaterTankCleaning: "water tank cleaning",
	CategoryWaterHeater:       "water heater service",
	CategoryApplianceRepair:   "appliance repair",
	CategoryLandscaping:       "landscaping",
	CategoryPoolMaintenance:   "pool maintenance",
	CategoryHandyman:          "handyman work",
	CategoryFlooring:          "flooring",
	CategoryMovingPacking:     "moving and packing",
}

// Label returns the human-readable name used in notifications.
func (c ServiceCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ValidCategory reports whether value is a known service category.
func ValidCategory(value ServiceCategory) bool {
	for _, category := range AllCategories {
		if category == value {
			return true
		}
	}
	return false
}
