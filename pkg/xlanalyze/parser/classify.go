package parser

import (
	"regexp"
	"strings"

	"github.com/xuri/efp"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// Formula normalization. Modern functions are stored with internal namespace
// prefixes (_xlfn., _xlpm., _xlws.) that never appear in the UI, and spill
// references are stored as ANCHORARRAY(ref). The translation table below is
// static and idempotent: cleaning an already-clean formula is a no-op.
var (
	prefixReplacer = strings.NewReplacer("_xlfn.", "", "_xlpm.", "", "_xlws.", "")
	anchorArrayRe  = regexp.MustCompile(`(?i)ANCHORARRAY\(([^()]+)\)`)
)

// CleanFormula translates internal storage prefixes to public function names
// and rewrites ANCHORARRAY(ref) to spill notation (ref#).
func CleanFormula(formula string) string {
	out := prefixReplacer.Replace(formula)
	out = anchorArrayRe.ReplaceAllString(out, "$1#")
	return out
}

// Function sets used by the classifier. Overlapping membership is resolved by
// the fixed precedence order in Classify.
var (
	// Spill-producing functions only. XLOOKUP and XMATCH spill too, but
	// they classify as LOOKUP: precedence alone cannot express that, so
	// they live only in the lookup set.
	dynamicArrayFunctions = newFuncSet(
		"FILTER", "SORT", "SORTBY", "UNIQUE", "SEQUENCE", "RANDARRAY",
		"LET", "MAP", "REDUCE", "SCAN",
		"MAKEARRAY", "BYROW", "BYCOL", "ISOMITTED", "CHOOSECOLS", "CHOOSEROWS",
		"DROP", "TAKE", "EXPAND", "VSTACK", "HSTACK", "TOROW", "TOCOL",
		"WRAPROWS", "WRAPCOLS", "TEXTSPLIT", "TEXTBEFORE", "TEXTAFTER",
	)
	lookupFunctions = newFuncSet(
		"VLOOKUP", "HLOOKUP", "LOOKUP", "INDEX", "MATCH", "XLOOKUP", "XMATCH",
		"OFFSET", "INDIRECT", "CHOOSE", "GETPIVOTDATA",
	)
	aggregateFunctions = newFuncSet(
		"SUM", "SUMIF", "SUMIFS", "SUMPRODUCT", "COUNT", "COUNTA", "COUNTIF",
		"COUNTIFS", "COUNTBLANK", "AVERAGE", "AVERAGEIF", "AVERAGEIFS",
		"MIN", "MINIFS", "MAX", "MAXIFS", "AGGREGATE", "SUBTOTAL",
	)
	volatileFunctions = newFuncSet(
		"NOW", "TODAY", "RAND", "RANDBETWEEN", "INDIRECT", "OFFSET", "INFO",
		"CELL", "RANDARRAY",
	)
	errorHandlingFunctions = newFuncSet(
		"IFERROR", "IFNA", "ISERROR", "ISNA", "ISERR", "ERROR.TYPE",
	)
	textFunctions = newFuncSet(
		"CONCATENATE", "CONCAT", "TEXTJOIN", "LEFT", "RIGHT", "MID", "LEN",
		"FIND", "SEARCH", "SUBSTITUTE", "REPLACE", "TRIM", "CLEAN", "UPPER",
		"LOWER", "PROPER", "TEXT", "VALUE", "FIXED", "DOLLAR", "CHAR", "CODE",
		"REPT", "EXACT", "T",
	)
	dateTimeFunctions = newFuncSet(
		"DATE", "DATEVALUE", "TIME", "TIMEVALUE", "YEAR", "MONTH", "DAY",
		"HOUR", "MINUTE", "SECOND", "WEEKDAY", "WEEKNUM", "ISOWEEKNUM",
		"NETWORKDAYS", "WORKDAY", "EDATE", "EOMONTH", "DATEDIF",
	)
	logicalFunctions = newFuncSet(
		"IF", "IFS", "SWITCH", "AND", "OR", "NOT", "XOR", "TRUE", "FALSE",
		"ISBLANK", "ISNUMBER", "ISTEXT", "ISLOGICAL", "ISREF", "ISEVEN",
		"ISODD", "ISFORMULA",
	)
	financialFunctions = newFuncSet(
		"PMT", "IPMT", "PPMT", "FV", "PV", "NPV", "IRR", "MIRR", "XNPV",
		"XIRR", "RATE", "NPER", "SLN", "SYD", "DB", "DDB", "VDB",
	)
	statisticalFunctions = newFuncSet(
		"MEDIAN", "MODE", "STDEV", "STDEVP", "STDEV.S", "STDEV.P", "VAR",
		"VARP", "VAR.S", "VAR.P", "PERCENTILE", "QUARTILE", "RANK", "LARGE",
		"SMALL", "CORREL", "COVAR", "FORECAST", "SLOPE", "INTERCEPT", "TREND",
		"NORM.DIST", "NORM.INV", "T.TEST", "Z.TEST", "CHISQ.TEST",
	)
	mathFunctions = newFuncSet(
		"ABS", "SIGN", "ROUND", "ROUNDUP", "ROUNDDOWN", "CEILING", "FLOOR",
		"INT", "TRUNC", "MOD", "POWER", "SQRT", "EXP", "LN", "LOG", "LOG10",
		"PRODUCT", "QUOTIENT", "PI", "DEGREES", "RADIANS", "SIN", "COS",
		"TAN", "ASIN", "ACOS", "ATAN", "ATAN2",
	)
)

func newFuncSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// externalMarkerRe matches cross-workbook reference tokens: numeric link
// indices like [1]Sheet1!A1 and literal workbook names like [Costs.xlsx].
// Structured-table column references also use brackets and must not match.
var externalMarkerRe = regexp.MustCompile(`(?i)\[(\d+|[^\]\[]+\.xls[xmb]?)\]`)

// funcCallRe is the fallback function-name scanner used when the formula
// parser produces no tokens.
var funcCallRe = regexp.MustCompile(`([A-Z][A-Z0-9_.]*)\s*\(`)

// formulaFunctions returns the set of function names invoked by a formula,
// uppercased. The formula should already be cleaned. ok is false when the
// parser could not tokenize the input and the regex fallback was used.
func formulaFunctions(formula string) (map[string]struct{}, bool) {
	body := strings.TrimPrefix(strings.TrimPrefix(formula, "{"), "=")
	body = strings.TrimSuffix(body, "}")
	fns := make(map[string]struct{})

	ps := efp.ExcelParser()
	tokens := ps.Parse(body)
	if tokens == nil {
		for _, m := range funcCallRe.FindAllStringSubmatch(strings.ToUpper(body), -1) {
			fns[m[1]] = struct{}{}
		}
		return fns, false
	}
	for _, tok := range tokens {
		if tok.TType == efp.TokenTypeFunction && tok.TSubType == efp.TokenSubTypeStart {
			fns[strings.ToUpper(tok.TValue)] = struct{}{}
		}
	}
	return fns, true
}

// Classify assigns exactly one category to a cleaned formula. The precedence
// chain is a design contract, evaluated top to bottom with first match wins:
//
//	LAMBDA > DYNAMIC_ARRAY > ARRAY_LEGACY > EXTERNAL > LOOKUP > AGGREGATE >
//	VOLATILE > ERROR_HANDLING > TEXT > DATE_TIME > LOGICAL > FINANCIAL >
//	STATISTICAL > MATH > SIMPLE
//
// Classification is deterministic: the same input always yields the same
// category. The array-formula and external-reference flags on FormulaInfo
// are computed independently and may co-occur with any category.
func Classify(formula string) models.FormulaCategory {
	fns, _ := formulaFunctions(formula)

	has := func(set map[string]struct{}) bool {
		for fn := range fns {
			if _, ok := set[fn]; ok {
				return true
			}
		}
		return false
	}

	if _, ok := fns["LAMBDA"]; ok || isLambda(formula) {
		return models.CategoryLambda
	}

	switch {
	case has(dynamicArrayFunctions):
		return models.CategoryDynamicArray
	case strings.HasPrefix(formula, "{="):
		// Legacy CSE arrays outrank the per-function categories; only a
		// dynamic-array rewrite of the same cell takes precedence.
		return models.CategoryArrayLegacy
	case externalMarkerRe.MatchString(formula):
		return models.CategoryExternal
	case has(lookupFunctions):
		return models.CategoryLookup
	case has(aggregateFunctions):
		return models.CategoryAggregate
	case has(volatileFunctions):
		return models.CategoryVolatile
	case has(errorHandlingFunctions):
		return models.CategoryErrorHandling
	case has(textFunctions):
		return models.CategoryText
	case has(dateTimeFunctions):
		return models.CategoryDateTime
	case has(logicalFunctions):
		return models.CategoryLogical
	case has(financialFunctions):
		return models.CategoryFinancial
	case has(statisticalFunctions):
		return models.CategoryStatistical
	case has(mathFunctions):
		return models.CategoryMath
	default:
		return models.CategorySimple
	}
}

// externalWorkbooks returns the external workbook identifiers referenced by
// a formula. Numeric link indices are resolved through targets (the document
// order of the workbook's external references); unresolvable indices are
// kept in their bracketed form.
func externalWorkbooks(formula string, targets map[int]string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range externalMarkerRe.FindAllStringSubmatch(formula, -1) {
		ref := m[1]
		if idx, err := parseLinkIndex(ref); err == nil {
			if name, ok := targets[idx]; ok && name != "" {
				ref = name
			} else {
				ref = "[" + ref + "]"
			}
		}
		if _, dup := seen[ref]; !dup {
			seen[ref] = struct{}{}
			out = append(out, ref)
		}
	}
	return out
}

func parseLinkIndex(s string) (int, error) {
	var n int
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errNotIndex
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

var errNotIndex = errNotIndexType{}

type errNotIndexType struct{}

func (errNotIndexType) Error() string { return "not a link index" }
