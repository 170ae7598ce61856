package catalog

// Kind distinguishes trigger definitions from effect definitions.
type Kind string

const (
	KindAction   Kind = "action"
	KindReaction Kind = "reaction"
)

// Service identifies an integrable third-party service.
type Service struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	ConnectURL  string `json:"connect_url" yaml:"connect_url"`
}

// Item is a reusable action or reaction definition offered by a service.
// Fields enumerates, in order, the named inputs a node using this item
// must have filled before submission.
type Item struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description,omitempty"`
	Kind        Kind     `json:"kind" yaml:"kind"`
	Fields      []string `json:"fields" yaml:"fields,omitempty"`
}
