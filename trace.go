package params

import "encoding/json"

// Trace captures provenance for one descriptor's metadata resolution: which
// ancestor supplied each field the declaration left unset.
type Trace struct {
	Name   string       `json:"name"`
	Fields []Provenance `json:"fields"`
}

// Provenance details how a single metadata field was filled.
type Provenance struct {
	Field  string `json:"field"`
	Source string `json:"source"`
	Value  any    `json:"value,omitempty"`
}

// ToJSON serialises the trace for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload previously produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
