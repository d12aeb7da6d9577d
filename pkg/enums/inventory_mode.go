package enums

import "fmt"

// InventoryMode describes how a listing's pairs are packed.
// A size run ships a fixed size curve per case; a mixed batch ships assorted sizes.
type InventoryMode string

const (
	InventoryModeSizeRun    InventoryMode = "size_run"
	InventoryModeMixedBatch InventoryMode = "mixed_batch"
)

var validInventoryModes = []InventoryMode{
	InventoryModeSizeRun,
	InventoryModeMixedBatch,
}

// String implements fmt.Stringer.
func (m InventoryMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known InventoryMode.
func (m InventoryMode) IsValid() bool {
	for _, candidate := range validInventoryModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseInventoryMode converts raw input into an InventoryMode.
func ParseInventoryMode(value string) (InventoryMode, error) {
	for _, candidate := range validInventoryModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory mode %q", value)
}
