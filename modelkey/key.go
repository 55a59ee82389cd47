// Package modelkey identifies trained model variants and groups them for
// comparison.
//
// A Key is an ordered tuple of categorical values (target effect, model
// build, estimator, ...). The meaning of each position comes from a parallel
// Names list that stays fixed for a results collection.
package modelkey

import (
	"strings"

	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Key is one model identifier. Keys are treated as immutable: every function
// in this package returns fresh slices.
type Key []string

// String joins the elements with "-".
func (k Key) String() string {
	return strings.Join(k, "-")
}

// Equal reports whether k and o hold the same elements.
func (k Key) Equal(o Key) bool {
	if len(k) != len(o) {
		return false
	}
	for i := range k {
		if k[i] != o[i] {
			return false
		}
	}
	return true
}

// Contains reports whether any element of k contains substr.
func (k Key) Contains(substr string) bool {
	for _, v := range k {
		if strings.Contains(v, substr) {
			return true
		}
	}
	return false
}

// Compare orders keys element by element, shorter keys first on a tie.
func (k Key) Compare(o Key) int {
	for i := 0; i < len(k) && i < len(o); i++ {
		if c := strings.Compare(k[i], o[i]); c != 0 {
			return c
		}
	}
	return len(k) - len(o)
}

// Clone returns a copy of k.
func (k Key) Clone() Key {
	return append(Key(nil), k...)
}

// Parse splits a "-"-joined key. It does not support elements containing "-".
func Parse(s string) Key {
	return Key(strings.Split(s, "-"))
}

// Names lists the dimension names of a results collection, in key order.
type Names []string

// Index returns the position of name, or -1.
func (n Names) Index(name string) int {
	for i, v := range n {
		if v == name {
			return i
		}
	}
	return -1
}

// Validate checks that k has one element per dimension.
func (n Names) Validate(k Key) error {
	if len(k) != len(n) {
		return errors.NewDimensionError("modelkey.Names.Validate", len(n), len(k), 1)
	}
	return nil
}

// Lookup returns the value of dimension name in k.
func (n Names) Lookup(k Key, name string) (string, error) {
	i := n.Index(name)
	if i < 0 {
		return "", errors.NewInvalidDimensionError("modelkey.Names.Lookup", name, n)
	}
	if err := n.Validate(k); err != nil {
		return "", err
	}
	return k[i], nil
}

// Map returns k as a dimension-name to value mapping.
func (n Names) Map(k Key) (map[string]string, error) {
	if err := n.Validate(k); err != nil {
		return nil, err
	}
	m := make(map[string]string, len(n))
	for i, name := range n {
		m[name] = k[i]
	}
	return m, nil
}

// Filter keeps keys containing inclusion (when non-empty) and not containing
// exclusion (when non-empty), matched against every element.
func Filter(keys []Key, inclusion, exclusion string) []Key {
	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		if inclusion != "" && !k.Contains(inclusion) {
			continue
		}
		if exclusion != "" && k.Contains(exclusion) {
			continue
		}
		out = append(out, k.Clone())
	}
	return out
}

// SharedValue returns the value every key holds for dimension name. It fails
// with an InconsistentGroupingError when the keys disagree.
func SharedValue(keys []Key, names Names, name string) (string, error) {
	i := names.Index(name)
	if i < 0 {
		return "", errors.NewInvalidDimensionError("modelkey.SharedValue", name, names)
	}
	if len(keys) == 0 {
		return "", errors.NewValueError("modelkey.SharedValue", "no model keys")
	}

	var distinct []string
	for _, k := range keys {
		if err := names.Validate(k); err != nil {
			return "", err
		}
		if !containsString(distinct, k[i]) {
			distinct = append(distinct, k[i])
		}
	}
	if len(distinct) > 1 {
		return "", errors.NewInconsistentGroupingError("modelkey.SharedValue", name, distinct)
	}
	return distinct[0], nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
