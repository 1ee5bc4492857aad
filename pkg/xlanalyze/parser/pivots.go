package parser

import (
	"context"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// ExtractPivotTables collects pivot table definitions per sheet. Connection
// vs. range sourcing is resolved against the pivot cache map so that
// model-backed pivots report a connection instead of a bogus range.
func ExtractPivotTables(ctx context.Context, f *excelize.File, c *container.Container) ([]models.PivotTableInfo, []models.Diagnostic, error) {
	var out []models.PivotTableInfo
	var diags []models.Diagnostic
	cacheConns := pivotCacheConnections(c)
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return out, diags, err
		}
		pivots, err := f.GetPivotTables(sheet)
		if err != nil {
			diags = append(diags, errDiag("pivot_tables", "sheet "+sheet+" pivot tables unreadable", err))
			continue
		}
		for _, pt := range pivots {
			info := models.PivotTableInfo{
				Name:         pt.Name,
				Sheet:        sheet,
				Location:     stripSheetPrefix(pt.PivotTableRange),
				RowFields:    fieldNames(pt.Rows),
				ColumnFields: fieldNames(pt.Columns),
				DataFields:   fieldNames(pt.Data),
				FilterFields: fieldNames(pt.Filter),
			}
			if connID, ok := cacheConns[pt.Name]; ok && connID != "" {
				info.SourceConnection = connectionNameByID(c, connID)
			} else {
				info.SourceRange = pt.DataRange
			}
			out = append(out, info)
		}
	}
	return out, diags, nil
}

func fieldNames(fields []excelize.PivotTableField) []string {
	var names []string
	for _, field := range fields {
		name := field.Name
		if name == "" {
			name = field.Data
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func stripSheetPrefix(ref string) string {
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// pivotCacheConnections maps pivot table names to the connection id their
// cache reads from, for caches defined with a connectionId source.
func pivotCacheConnections(c *container.Container) map[string]string {
	conns := make(map[string]string)
	for _, part := range c.ListParts() {
		if !strings.HasPrefix(part, "xl/pivotCache/pivotCacheDefinition") {
			continue
		}
		data, err := c.ReadPart(part)
		if err != nil {
			continue
		}
		connID := attrInRoot(data, "cacheSource", "connectionId")
		if connID == "" {
			continue
		}
		// the cache feeds any pivot table whose definition rels point at it
		for _, name := range pivotTablesUsingCache(c, part) {
			conns[name] = connID
		}
	}
	return conns
}

func pivotTablesUsingCache(c *container.Container, cachePart string) []string {
	var names []string
	for _, part := range c.ListParts() {
		if !strings.HasPrefix(part, "xl/pivotTables/pivotTable") || strings.Contains(part, "_rels") {
			continue
		}
		rels, err := c.Relationships(part)
		if err != nil {
			continue
		}
		for _, rel := range rels {
			if container.ResolveTarget(part, rel.Target) != cachePart {
				continue
			}
			data, err := c.ReadPart(part)
			if err != nil {
				continue
			}
			if name := attrInRoot(data, "pivotTableDefinition", "name"); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
