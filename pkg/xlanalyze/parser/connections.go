package parser

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

const connectionsPart = "xl/connections.xml"

var connectionTypeNames = map[string]string{
	"1": "ODBC",
	"2": "DAO",
	"3": "File",
	"4": "Web Query",
	"5": "OLEDB",
	"6": "Text",
	"7": "ADO",
	"8": "DSP",
}

var commandTypeNames = map[string]string{
	"1": "SQL",
	"2": "Table",
	"3": "Default",
	"4": "DAX",
	"5": "Cube",
}

// daxKeywords are table-expression keywords that only appear in DAX, not in
// SQL or MDX command text.
var daxKeywords = []string{"EVALUATE", "SUMMARIZE", "CALCULATETABLE", "ADDCOLUMNS", "TOPN("}

type connectionXML struct {
	ID          string `xml:"id,attr"`
	Name        string `xml:"name,attr"`
	Type        string `xml:"type,attr"`
	Description string `xml:"description,attr"`
	DBPr        *struct {
		Connection  string `xml:"connection,attr"`
		Command     string `xml:"command,attr"`
		CommandType string `xml:"commandType,attr"`
	} `xml:"dbPr"`
	WebPr *struct {
		URL string `xml:"url,attr"`
	} `xml:"webPr"`
	TextPr *struct {
		SourceFile string `xml:"sourceFile,attr"`
	} `xml:"textPr"`
	OLAPPr *struct{} `xml:"olapPr"`
}

// ExtractConnections reads xl/connections.xml and annotates each connection
// with the pivot caches it feeds. A workbook without the part has no
// connections; that is not an error.
func ExtractConnections(c *container.Container) ([]models.DataConnectionInfo, []models.Diagnostic, error) {
	if !c.HasPart(connectionsPart) {
		return nil, nil, nil
	}
	data, err := c.ReadPart(connectionsPart)
	if err != nil {
		return nil, []models.Diagnostic{errDiag("connections", "connections part unreadable", err)}, nil
	}
	var doc struct {
		Connections []connectionXML `xml:"connection"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, []models.Diagnostic{errDiag("connections", "connections part is malformed", err)}, nil
	}

	cachesByConn := cachesByConnectionID(c)
	var out []models.DataConnectionInfo
	for _, conn := range doc.Connections {
		info := models.DataConnectionInfo{
			Name:              orDefault(conn.Name, "Unknown"),
			ConnectionType:    connectionTypeName(conn.Type),
			Description:       conn.Description,
			ConnectionID:      conn.ID,
			UsedByPivotCaches: cachesByConn[conn.ID],
		}
		if conn.DBPr != nil {
			info.ConnectionString = conn.DBPr.Connection
			info.CommandText = unescapeCommand(conn.DBPr.Command)
			if name, ok := commandTypeNames[conn.DBPr.CommandType]; ok {
				info.CommandType = name
			} else {
				info.CommandType = conn.DBPr.CommandType
			}
		}
		if conn.WebPr != nil {
			info.ConnectionType = "Web Query"
			info.ConnectionString = conn.WebPr.URL
		}
		if conn.TextPr != nil {
			info.ConnectionType = "Text File"
			info.ConnectionString = conn.TextPr.SourceFile
		}
		if conn.OLAPPr != nil {
			info.ConnectionType = "OLAP/Power Pivot"
		}
		if info.CommandType == "DAX" || looksLikeDAX(info.CommandText) {
			info.IsDAX = true
			info.DAXQuery = info.CommandText
			if info.CommandType == "" {
				info.CommandType = "DAX"
			}
		}
		out = append(out, info)
	}
	return out, nil, nil
}

func connectionTypeName(t string) string {
	if t == "" {
		return "Unknown"
	}
	if name, ok := connectionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type %s", t)
}

// unescapeCommand undoes the OOXML control-character escapes found in
// multi-line command text.
func unescapeCommand(command string) string {
	command = strings.ReplaceAll(command, "_x000D_", "")
	command = strings.ReplaceAll(command, "_x000d_", "")
	command = strings.ReplaceAll(command, "_x000A_", "\n")
	return strings.ReplaceAll(command, "_x000a_", "\n")
}

func looksLikeDAX(command string) bool {
	upper := strings.ToUpper(command)
	for _, kw := range daxKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// cachesByConnectionID maps connection ids to pivot cache labels derived
// from the cache part names.
func cachesByConnectionID(c *container.Container) map[string][]string {
	caches := make(map[string][]string)
	for _, part := range c.ListParts() {
		if !strings.HasPrefix(part, "xl/pivotCache/pivotCacheDefinition") || !strings.HasSuffix(part, ".xml") {
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
		label := "PivotCache" + strings.TrimSuffix(strings.TrimPrefix(part, "xl/pivotCache/pivotCacheDefinition"), ".xml")
		caches[connID] = append(caches[connID], label)
	}
	return caches
}

// connectionNameByID resolves a connection id to its name, falling back to
// the id when the connections part is absent or does not list it.
func connectionNameByID(c *container.Container, id string) string {
	if !c.HasPart(connectionsPart) {
		return id
	}
	data, err := c.ReadPart(connectionsPart)
	if err != nil {
		return id
	}
	var doc struct {
		Connections []connectionXML `xml:"connection"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return id
	}
	for _, conn := range doc.Connections {
		if conn.ID == id && conn.Name != "" {
			return conn.Name
		}
	}
	return id
}

// HasDataModel reports whether the workbook embeds a Power Pivot data model.
func HasDataModel(c *container.Container) bool {
	for _, part := range c.ListParts() {
		if strings.HasPrefix(part, "xl/model/") {
			return true
		}
	}
	return false
}
