package models

// PowerQueryInfo describes one Power Query definition (M language).
type PowerQueryInfo struct {
	// Name is the query name.
	Name string `json:"name"`
	// Formula is the M source text of the query.
	Formula string `json:"formula"`
	// Description is the optional query description.
	Description string `json:"description,omitempty"`
	// LoadEnabled reports whether the query loads to a destination
	// (worksheet table or data model) rather than being connection-only.
	LoadEnabled bool `json:"load_enabled"`
	// LoadDestination names the detected load destination, when known.
	LoadDestination string `json:"load_destination,omitempty"`
}
