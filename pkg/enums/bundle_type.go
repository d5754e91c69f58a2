package enums

import "fmt"

// BundleType records where a bundle came from. It never changes pricing.
type BundleType string

const (
	BundleTypeThemed      BundleType = "themed"
	BundleTypeCustom      BundleType = "custom"
	BundleTypeAISuggested BundleType = "ai-suggested"
)

var validBundleTypes = []BundleType{
	BundleTypeThemed,
	BundleTypeCustom,
	BundleTypeAISuggested,
}

// String implements fmt.Stringer.
func (b BundleType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BundleType.
func (b BundleType) IsValid() bool {
	for _, candidate := range validBundleTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBundleType converts raw input into a BundleType.
func ParseBundleType(value string) (BundleType, error) {
	for _, candidate := range validBundleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bundle type %q", value)
}
