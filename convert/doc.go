// Package convert coerces loosely typed cell values into typed Go values.
//
// SQL NULL, in any of its forms, always coerces to the zero value of the
// target (nil for pointer targets). Any other value either converts exactly
// or fails with a *ConversionError; values are never truncated or defaulted.
package convert
