package display

import (
	"strings"

	"github.com/rolledback/safediff/internal/models"
)

const DefaultMask = "****"

// Options controls how a Delta is rendered.
type Options struct {
	UseColor      bool
	UseVerbose    bool
	MaskPasswords bool
	// Mask replaces password values; DefaultMask when empty.
	Mask string
}

// Masker is the only place field values are prepared for output. Every
// renderer passes values through Value before formatting them.
type Masker struct {
	enabled bool
	mask    string
}

func NewMasker(o Options) Masker {
	mask := o.Mask
	if mask == "" {
		mask = DefaultMask
	}
	return Masker{enabled: o.MaskPasswords, mask: mask}
}

// Value returns v, or the mask when field is a password field and masking is
// on. Absent values stay absent.
func (m Masker) Value(field string, v *string) *string {
	if v == nil || !m.enabled || !IsSensitive(field) {
		return v
	}
	mask := m.mask
	return &mask
}

// IsSensitive reports whether a field holds a password.
func IsSensitive(field string) bool {
	return strings.EqualFold(field, models.FieldPassword)
}
