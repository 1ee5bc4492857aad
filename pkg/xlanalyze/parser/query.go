package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

const dataMashupNS = "http://schemas.microsoft.com/DataMashup"

var (
	sectionHeaderRe = regexp.MustCompile(`(?i)section\s+\w+\s*;`)
	sharedSplitRe   = regexp.MustCompile(`(?i)shared\s+`)
	sharedNameRe    = regexp.MustCompile(`(?is)^#?"?([^"=]+?)"?\s*=\s*(.*?);?\s*$`)
	mashupTextRe    = regexp.MustCompile(`(?s)<DataMashup[^>]*>(.*?)</DataMashup>`)
)

// ExtractPowerQueries decodes the DataMashup payload embedded under
// customXml. The payload wraps a base64 package whose Section1.m holds the
// shared query definitions.
func ExtractPowerQueries(ctx context.Context, c *container.Container) ([]models.PowerQueryInfo, []models.Diagnostic, error) {
	payload := findDataMashup(c)
	if payload == nil {
		return nil, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	section, err := mashupSection(payload)
	if err != nil {
		return nil, []models.Diagnostic{errDiag("power_query", "DataMashup payload undecodable", err)}, nil
	}
	if section == "" {
		return nil, []models.Diagnostic{warnDiag("power_query", "DataMashup present but holds no M section")}, nil
	}

	queries := parseMSection(section)
	annotateQueryLoads(c, queries)
	return queries, nil, nil
}

// findDataMashup returns the raw customXml item carrying the DataMashup
// namespace, or nil when the workbook has no Power Query content.
func findDataMashup(c *container.Container) []byte {
	for _, part := range c.ListParts() {
		if !strings.HasPrefix(part, "customXml/item") || !strings.HasSuffix(part, ".xml") {
			continue
		}
		data, err := c.ReadPart(part)
		if err != nil {
			continue
		}
		if bytes.Contains(data, []byte(dataMashupNS)) {
			return data
		}
	}
	return nil
}

// mashupSection decodes the base64 mashup package and returns the first .m
// file inside it. The decoded bytes carry a short version header before the
// embedded zip; the zip reader locates the archive from its directory, so
// the header needs no special handling.
func mashupSection(payload []byte) (string, error) {
	m := mashupTextRe.FindSubmatch(payload)
	if m == nil {
		return "", nil
	}
	encoded := strings.TrimSpace(string(m[1]))
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	zr, err := zip.NewReader(bytes.NewReader(decoded), int64(len(decoded)))
	if err != nil {
		return "", err
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".m") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		var b bytes.Buffer
		_, copyErr := b.ReadFrom(rc)
		rc.Close()
		if copyErr != nil {
			return "", copyErr
		}
		return b.String(), nil
	}
	return "", nil
}

// parseMSection splits an M section document into its shared queries.
func parseMSection(section string) []models.PowerQueryInfo {
	section = sectionHeaderRe.ReplaceAllString(section, "")
	var out []models.PowerQueryInfo
	for _, part := range sharedSplitRe.Split(section, -1)[1:] {
		m := sharedNameRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		out = append(out, models.PowerQueryInfo{
			Name:    strings.TrimSpace(m[1]),
			Formula: cleanMFormula(m[2]),
		})
	}
	return out
}

func cleanMFormula(formula string) string {
	formula = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(formula), ";"))
	formula = strings.ReplaceAll(formula, "\r\n", "\n")
	return strings.ReplaceAll(formula, "\r", "\n")
}

// annotateQueryLoads marks queries that load somewhere, using the mashup
// OLE DB connections Excel creates per loaded query. A loaded query lands
// in a table of the same name unless the workbook only has a data model.
func annotateQueryLoads(c *container.Container, queries []models.PowerQueryInfo) {
	conns, _, _ := ExtractConnections(c)
	byQuery := make(map[string]bool)
	for _, conn := range conns {
		name := strings.TrimPrefix(conn.Name, "Query - ")
		if name != conn.Name {
			byQuery[name] = true
		}
	}
	hasModel := HasDataModel(c)
	for i := range queries {
		if !byQuery[queries[i].Name] {
			continue
		}
		queries[i].LoadEnabled = true
		if hasModel {
			queries[i].LoadDestination = "data_model"
		} else {
			queries[i].LoadDestination = "worksheet"
		}
	}
}
