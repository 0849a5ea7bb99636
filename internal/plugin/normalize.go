package plugin

import (
	"fmt"
	"strings"
)

// rule is one ordered (pattern, replacement) substitution. Rules are plain
// case-sensitive string replacements, not regexes: the model only ever
// produces a handful of known spellings, and a data-driven table keeps new
// dialects a one-line change.
type rule struct {
	from string
	to   string
}

// dialectRules reconciles the SQL the model writes (it sees the all-caps
// names from the schema description) with the identifiers the backends
// actually store. Two families:
//
//  1. Column canonicalization. The two budget columns carry an eñe and were
//     created mixed-case in the client-server schema, so the all-caps and
//     ASCII-folded spellings the model produces are mapped back to the true
//     backend form. EXPEDIENTE TECNICO contains a space; the underscore
//     spelling is mapped to the quoted identifier.
//  2. Keyword/type tokens. Identity today; kept as data so a divergent
//     third dialect only needs new rows here.
//
// Every replacement is a fixed point: no rule's output contains any rule's
// pattern, so the full pass is idempotent.
var dialectRules = []rule{
	{"PIM_AÑO_ACTUAL", "PIM_Año_Actual"},
	{"PIM_ANIO_ACTUAL", "PIM_Año_Actual"},
	{"PIM_ANO_ACTUAL", "PIM_Año_Actual"},
	{"DEVENGADO_AÑO_ATUAL", "Devengado_Año_Atual"},
	{"DEVENGADO_ANIO_ACTUAL", "Devengado_Año_Atual"},
	{"DEVENGADO_ANO_ACTUAL", "Devengado_Año_Atual"},
	{"EXPEDIENTE_TECNICO", `"EXPEDIENTE TECNICO"`},

	{"ILIKE", "ILIKE"},
	{"CURRENT_DATE", "CURRENT_DATE"},
	{"STRFTIME", "STRFTIME"},
}

// caseExceptions are backend identifiers that must come out of the global
// uppercase pass byte-identical: their uppercase form is a different string
// than the column actually stored in the backend schema.
var caseExceptions = []string{
	"PIM_Año_Actual",
	"Devengado_Año_Atual",
}

// rewriteDialect applies the ordered rule set.
func rewriteDialect(query string) string {
	for _, r := range dialectRules {
		query = strings.ReplaceAll(query, r.from, r.to)
	}
	return query
}

// foldCase uppercases the whole query except the case exceptions. Each
// exception is swapped for a unique placeholder that survives ToUpper, the
// string is uppercased, and the placeholder is swapped back to the original
// form. A naive ToUpper would corrupt the mixed-case backend identifiers.
//
// String literals inside the query are uppercased along with everything
// else. That matches the stored data (the dataset is upper-cased) and is the
// documented behavior, not a defect to fix here.
func foldCase(query string) string {
	for i, exc := range caseExceptions {
		query = strings.ReplaceAll(query, exc, placeholder(i))
	}
	query = strings.ToUpper(query)
	for i, exc := range caseExceptions {
		query = strings.ReplaceAll(query, placeholder(i), exc)
	}
	return query
}

func placeholder(i int) string {
	return fmt.Sprintf("__XCOL%d__", i)
}

// Normalize prepares a model-generated query for execution: dialect rewrite
// first, then the case fold.
func Normalize(query string) string {
	return foldCase(rewriteDialect(query))
}
