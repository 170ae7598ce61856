package workflow

import (
	"encoding/json"
	"fmt"
	"time"
)

// Body is the per-node field values of a persisted trigger or reaction,
// keyed by field name. Decoding is lenient because older records may carry
// arbitrary JSON bodies: a non-object body becomes an empty map, string
// values are kept verbatim, scalar values are stringified, and nested
// objects/arrays are dropped. The field schema is the sole source of truth
// for shape, so anything it cannot describe is not worth preserving.
type Body map[string]string

// UnmarshalJSON implements the lenient coercion described above.
func (b *Body) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		*b = Body{}
		return nil
	}

	out := make(Body, len(raw))
	for key, val := range raw {
		switch v := val.(type) {
		case string:
			out[key] = v
		case bool, float64:
			out[key] = fmt.Sprint(v)
		case nil:
			out[key] = ""
		}
	}
	*b = out
	return nil
}

// Trigger is the persisted form of the workflow's single action.
type Trigger struct {
	ServiceID string `json:"service_id"`
	ActionID  string `json:"action_id"`
	Body      Body   `json:"body"`
}

// Reaction is the persisted form of one downstream effect. Its position in
// the reactions list corresponds to one reaction node that was connected to
// the trigger at submission time.
type Reaction struct {
	ServiceID  string `json:"service_id"`
	ReactionID string `json:"reaction_id"`
	Body       Body   `json:"body"`
}

// Workflow is the flat, connection-free persisted record: one trigger plus
// an ordered list of reactions.
type Workflow struct {
	ID        string     `json:"id"`
	Toggle    bool       `json:"toggle"`
	Trigger   Trigger    `json:"trigger"`
	Reactions []Reaction `json:"reactions"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at,omitempty"`
}
