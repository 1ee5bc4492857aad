package models

// ModuleKind is the kind of a VBA module.
type ModuleKind string

const (
	// ModuleStandard is a plain procedural module.
	ModuleStandard ModuleKind = "standard"
	// ModuleClass is a class module.
	ModuleClass ModuleKind = "class"
	// ModuleDocument is a document module (ThisWorkbook or a sheet module).
	ModuleDocument ModuleKind = "document"
)

// VBAModuleInfo describes one decoded VBA module.
type VBAModuleInfo struct {
	// Name is the module name, unique within the macro project.
	Name string `json:"name"`
	// Kind is the module kind.
	Kind ModuleKind `json:"kind"`
	// Code is the decompressed module source.
	Code string `json:"code"`
	// LineCount counts non-empty source lines.
	LineCount int `json:"line_count"`
	// Procedures lists Sub/Function/Property names found in the source.
	Procedures []string `json:"procedures,omitempty"`
}
