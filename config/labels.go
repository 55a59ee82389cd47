package config

import (
	"gopkg.in/yaml.v3"

	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Label pairs a raw name with its display label.
type Label struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// LabelMap is an ordered mapping from raw names to display labels.
type LabelMap []Label

// Keys returns the raw names in order.
func (m LabelMap) Keys() []string {
	keys := make([]string, len(m))
	for i, l := range m {
		keys[i] = l.Key
	}
	return keys
}

// Lookup returns the label of key.
func (m LabelMap) Lookup(key string) (string, bool) {
	for _, l := range m {
		if l.Key == key {
			return l.Label, true
		}
	}
	return "", false
}

// Label returns the label of key, or key itself when it has none.
func (m LabelMap) Label(key string) string {
	if label, ok := m.Lookup(key); ok {
		return label
	}
	return key
}

// Has reports whether key is present.
func (m LabelMap) Has(key string) bool {
	_, ok := m.Lookup(key)
	return ok
}

// UnmarshalYAML accepts either a mapping, read in document order, or a
// sequence of {key, label} entries.
func (m *LabelMap) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(LabelMap, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var key, label string
			if err := node.Content[i].Decode(&key); err != nil {
				return err
			}
			if err := node.Content[i+1].Decode(&label); err != nil {
				return err
			}
			out = append(out, Label{Key: key, Label: label})
		}
		*m = out
		return nil
	case yaml.SequenceNode:
		var entries []Label
		if err := node.Decode(&entries); err != nil {
			return err
		}
		*m = entries
		return nil
	}
	return errors.Newf("label map: expected a mapping or a sequence at line %d", node.Line)
}

// MarshalYAML writes the map as a YAML mapping in order.
func (m LabelMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, l := range m {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: l.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: l.Label})
	}
	return node, nil
}
