package models

import "encoding/json"

// ConfigDescriptor is one parsed agent/workflow/task/tool definition file.
// The descriptor schema is owned by the workspace, not enforced here; parsed
// file content is carried as-is in Fields and flattened on marshal, with the
// filename/path metadata always winning on key collision.
type ConfigDescriptor struct {
	Filename string         `json:"filename"`
	Path     string         `json:"path"`
	Fields   map[string]any `json:"-"`
}

// MarshalJSON flattens Fields into the top-level object.
func (d ConfigDescriptor) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+2)
	for k, v := range d.Fields {
		out[k] = v
	}
	out["filename"] = d.Filename
	out["path"] = d.Path
	return json.Marshal(out)
}
