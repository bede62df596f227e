package entity

// ConfigKeyInfo describes a single configuration key for documentation.
type ConfigKeyInfo struct {
	// Key is the dotted path of the key, e.g. "icons.local_ttl_hours".
	Key string `json:"key"`

	// Type is the Go type name ("string", "int", "bool", "[]string").
	Type string `json:"type"`

	Default     string `json:"default"`
	Description string `json:"description"`

	// Values lists the accepted values of an enum key.
	Values []string `json:"values,omitempty"`

	// Range describes numeric bounds, e.g. "1-168".
	Range string `json:"range,omitempty"`

	Section string `json:"section"`
}
