package models

// NamedRangeInfo describes a defined name: a named range, named formula,
// or LAMBDA definition.
type NamedRangeInfo struct {
	// Name is the defined name.
	Name string `json:"name"`
	// Value is the target expression with internal prefixes translated.
	Value string `json:"value"`
	// Scope is the owning sheet name for sheet-scoped names, empty for
	// workbook-scoped names.
	Scope string `json:"scope,omitempty"`
	// IsLambda reports whether the value is a LAMBDA definition.
	IsLambda bool `json:"is_lambda"`
	// Comment is the optional description attached to the name.
	Comment string `json:"comment,omitempty"`
	// Hidden reports whether the name is hidden from the UI.
	Hidden bool `json:"hidden"`
}
