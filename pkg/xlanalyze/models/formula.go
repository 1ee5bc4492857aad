package models

// FormulaCategory classifies a formula by its most significant function.
// Classification is total: every formula maps to exactly one category.
type FormulaCategory string

const (
	CategorySimple        FormulaCategory = "simple"
	CategoryLookup        FormulaCategory = "lookup"
	CategoryDynamicArray  FormulaCategory = "dynamic_array"
	CategoryLambda        FormulaCategory = "lambda"
	CategoryAggregate     FormulaCategory = "aggregate"
	CategoryVolatile      FormulaCategory = "volatile"
	CategoryText          FormulaCategory = "text"
	CategoryDateTime      FormulaCategory = "date_time"
	CategoryLogical       FormulaCategory = "logical"
	CategoryFinancial     FormulaCategory = "financial"
	CategoryMath          FormulaCategory = "math"
	CategoryStatistical   FormulaCategory = "statistical"
	CategoryErrorHandling FormulaCategory = "error_handling"
	CategoryExternal      FormulaCategory = "external"
	CategoryArrayLegacy   FormulaCategory = "array_legacy"
)

// FormulaInfo describes one formula-bearing cell.
//
// FormulaClean holds the formula with Excel's internal storage prefixes
// translated to their public names (e.g. _xlfn.XLOOKUP becomes XLOOKUP).
type FormulaInfo struct {
	Location CellReference `json:"location"`
	// Formula is the raw formula text as stored in the file.
	Formula string `json:"formula"`
	// FormulaClean is the normalized formula text.
	FormulaClean string `json:"formula_clean"`
	// Category is the classification result.
	Category FormulaCategory `json:"category"`
	// ResultValue is the cached result, populated only when requested.
	ResultValue string `json:"result_value,omitempty"`
	// IsArrayFormula reports a legacy CSE array formula.
	IsArrayFormula bool `json:"is_array_formula"`
	// SpillRange is the range a dynamic array spills to, when recorded.
	SpillRange string `json:"spill_range,omitempty"`
	// ReferencesExternal reports whether the formula references another workbook.
	ReferencesExternal bool `json:"references_external"`
	// ExternalRefs lists referenced external workbook names.
	ExternalRefs []string `json:"external_refs,omitempty"`
}
