package backend

import "fmt"

// FeatureLevel identifies a tier of hardware capability. Values are ordered so
// that a higher level compares greater.
type FeatureLevel uint32

// Feature levels, encoded as major<<12 | minor<<8.
const (
	FeatureLevel9_1  FeatureLevel = 0x9100
	FeatureLevel9_2  FeatureLevel = 0x9200
	FeatureLevel9_3  FeatureLevel = 0x9300
	FeatureLevel10_0 FeatureLevel = 0xa000
	FeatureLevel10_1 FeatureLevel = 0xa100
	FeatureLevel11_0 FeatureLevel = 0xb000
	FeatureLevel11_1 FeatureLevel = 0xb100
)

// DefaultFeatureLevels returns the candidate levels in descending preference.
// The returned slice is a fresh copy.
func DefaultFeatureLevels() []FeatureLevel {
	return []FeatureLevel{
		FeatureLevel11_1,
		FeatureLevel11_0,
		FeatureLevel10_1,
		FeatureLevel10_0,
		FeatureLevel9_3,
		FeatureLevel9_2,
		FeatureLevel9_1,
	}
}

// Major returns the major version.
func (l FeatureLevel) Major() int { return int(l>>12) & 0xf }

// Minor returns the minor version.
func (l FeatureLevel) Minor() int { return int(l>>8) & 0xf }

// String returns the level as "major.minor".
func (l FeatureLevel) String() string {
	if l == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d.%d", l.Major(), l.Minor())
}

// Negotiate returns the first level in requested that does not exceed
// supported. The second result is false if none qualifies.
func Negotiate(requested []FeatureLevel, supported FeatureLevel) (FeatureLevel, bool) {
	for _, l := range requested {
		if l <= supported {
			return l, true
		}
	}
	return 0, false
}
