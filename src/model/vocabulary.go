package model

// RoleSpec describes one assignable executor role. RequiresFormat inserts
// the format selection step into that role's plan.
type RoleSpec struct {
	Key            string `yaml:"key"`
	Label          string `yaml:"label"`
	RequiresFormat bool   `yaml:"requires_format"`
}

// CatalogItem is a (label, key) pair from the Catalog vocabulary
type CatalogItem struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// Vocabulary is the static wizard vocabulary loaded from config.yaml.
// The fallback sections stand in for the Catalog when it is degraded.
type Vocabulary struct {
	Roles    []RoleSpec `yaml:"roles"`
	Fallback struct {
		TaskTypes map[string][]CatalogItem `yaml:"task_types"` // keyed by role
		Formats   []CatalogItem            `yaml:"formats"`
	} `yaml:"fallback"`
}

// Role returns the spec for a role key, or nil if unknown
func (v *Vocabulary) Role(key string) *RoleSpec {
	for i := range v.Roles {
		if v.Roles[i].Key == key {
			return &v.Roles[i]
		}
	}
	return nil
}
