// Package catalog defines the business-type category taxonomy used to
// classify inventory records.
package catalog

// BusinessType classifies a marketplace business
type BusinessType string

const (
	BusinessRestaurant BusinessType = "restaurant"
	BusinessGrocery    BusinessType = "grocery"
	BusinessPharmacy   BusinessType = "pharmacy"
	BusinessRetail     BusinessType = "retail"
)

// CategoryCustom is accepted for every business type as an escape hatch for
// items that fit none of the fixed categories.
const CategoryCustom = "custom"

// categories maps each business type to its fixed category set
var categories = map[BusinessType][]string{
	BusinessRestaurant: {"appetizers", "mains", "desserts", "beverages", "sides", "ingredients"},
	BusinessGrocery:    {"produce", "dairy", "bakery", "meat", "frozen", "pantry", "beverages", "household"},
	BusinessPharmacy:   {"prescription", "otc", "vitamins", "personal_care", "first_aid"},
	BusinessRetail:     {"apparel", "electronics", "home", "toys", "sports", "books"},
}

// IsValid checks if the business type is a known value
func (b BusinessType) IsValid() bool {
	_, ok := categories[b]
	return ok
}

// String returns the string representation
func (b BusinessType) String() string {
	return string(b)
}

// Categories returns the fixed category set for a business type.
// Returns nil for an unknown type.
func Categories(businessType BusinessType) []string {
	fixed, ok := categories[businessType]
	if !ok {
		return nil
	}
	out := make([]string, len(fixed), len(fixed)+1)
	copy(out, fixed)
	return append(out, CategoryCustom)
}

// ValidCategory reports whether a category is acceptable for the business
// type. An empty category is always acceptable (uncategorized).
func ValidCategory(businessType BusinessType, category string) bool {
	if category == "" || category == CategoryCustom {
		return true
	}
	for _, c := range categories[businessType] {
		if c == category {
			return true
		}
	}
	return false
}
