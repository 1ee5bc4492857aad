package vba

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

var procedureRe = regexp.MustCompile(`(?im)^\s*(?:Public\s+|Private\s+|Friend\s+)?(?:Static\s+)?(?:Sub|Function|Property\s+(?:Get|Let|Set))\s+([A-Za-z_][A-Za-z0-9_]*)`)

// Project is an extracted VBA project.
type Project struct {
	Name    string
	Modules []models.VBAModuleInfo
	// Failures lists modules whose source could not be recovered.
	Failures []string
}

// ExtractProject reads a vbaProject.bin compound file and returns its
// modules with decompressed source. Individual module failures do not fail
// the project; they are reported in Failures.
func ExtractProject(r io.ReaderAt) (*Project, error) {
	streams, err := readStreams(r)
	if err != nil {
		return nil, err
	}
	dirData, err := Decompress(streams.dir)
	if err != nil {
		return nil, err
	}
	dir, err := parseDir(dirData)
	if err != nil {
		return nil, err
	}

	decoder := codePageDecoder(dir.CodePage)
	kinds := moduleKinds(streams.project)
	project := &Project{Name: dir.Name}
	for _, rec := range dir.Modules {
		source, err := streams.moduleSource(rec)
		if err != nil {
			project.Failures = append(project.Failures, rec.Name)
			continue
		}
		code := strings.ReplaceAll(decodeMBCS(decoder, bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))), "\r", "\n")
		info := models.VBAModuleInfo{
			Name:       rec.Name,
			Kind:       moduleKind(rec, kinds),
			Code:       code,
			LineCount:  countLines(code),
			Procedures: procedures(code),
		}
		project.Modules = append(project.Modules, info)
	}
	return project, nil
}

// moduleKinds reads the Module=, Class= and Document= assignments from the
// PROJECT stream. The stream is INI-shaped ASCII.
func moduleKinds(project []byte) map[string]models.ModuleKind {
	kinds := make(map[string]models.ModuleKind)
	for _, line := range strings.Split(string(project), "\n") {
		line = strings.TrimRight(line, "\r")
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		name := strings.TrimSpace(value)
		// Document lines carry a trailing /&H00000000 version suffix
		if i := strings.Index(name, "/"); i >= 0 {
			name = name[:i]
		}
		switch strings.TrimSpace(key) {
		case "Module":
			kinds[strings.ToLower(name)] = models.ModuleStandard
		case "Class":
			kinds[strings.ToLower(name)] = models.ModuleClass
		case "Document":
			kinds[strings.ToLower(name)] = models.ModuleDocument
		}
	}
	return kinds
}

// moduleKind resolves a module's kind, preferring the PROJECT stream and
// falling back to the dir stream type record.
func moduleKind(rec moduleRecord, kinds map[string]models.ModuleKind) models.ModuleKind {
	if kind, ok := kinds[strings.ToLower(rec.Name)]; ok {
		return kind
	}
	if rec.NonProcedural {
		return models.ModuleClass
	}
	return models.ModuleStandard
}

func procedures(code string) []string {
	var out []string
	for _, m := range procedureRe.FindAllStringSubmatch(code, -1) {
		out = append(out, m[1])
	}
	return out
}

// countLines counts non-empty source lines.
func countLines(code string) int {
	n := 0
	for _, line := range strings.Split(code, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
