package modelkey

import (
	"sort"

	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Group is a set of model keys that agree on every dimension except the
// excluded ones. Key is the projection they share.
type Group struct {
	Key     Key
	Members []Key
}

// GroupOptions tunes GroupKeys.
type GroupOptions struct {
	// StringToExclude drops every key with an element containing it.
	StringToExclude string
	// FilterSingleKey drops groups with fewer than two members.
	FilterSingleKey bool
}

// GroupKeys partitions keys by their projection onto the dimensions not named
// in exclude. Keys are first stable-sorted by that projection and consecutive
// equal projections are clustered, so the group order is deterministic.
// Every surviving key lands in exactly one group. Members keep input order
// within a group; callers needing another order sort explicitly.
func GroupKeys(keys []Key, names Names, exclude []string, opts GroupOptions) ([]Group, error) {
	excluded := make(map[int]struct{}, len(exclude))
	for _, name := range exclude {
		i := names.Index(name)
		if i < 0 {
			return nil, errors.NewInvalidDimensionError("modelkey.GroupKeys", name, names)
		}
		excluded[i] = struct{}{}
	}

	type entry struct {
		key        Key
		projection Key
	}
	entries := make([]entry, 0, len(keys))
	for _, k := range keys {
		if opts.StringToExclude != "" && k.Contains(opts.StringToExclude) {
			continue
		}
		if err := names.Validate(k); err != nil {
			return nil, err
		}
		entries = append(entries, entry{key: k.Clone(), projection: project(k, excluded)})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].projection.Compare(entries[b].projection) < 0
	})

	groups := make([]Group, 0)
	for _, e := range entries {
		if n := len(groups); n > 0 && groups[n-1].Key.Equal(e.projection) {
			groups[n-1].Members = append(groups[n-1].Members, e.key)
			continue
		}
		groups = append(groups, Group{Key: e.projection, Members: []Key{e.key}})
	}

	if opts.FilterSingleKey {
		kept := groups[:0]
		for _, g := range groups {
			if len(g.Members) > 1 {
				kept = append(kept, g)
			}
		}
		groups = kept
	}
	return groups, nil
}

// Project removes the named dimensions from k.
func Project(k Key, names Names, exclude ...string) (Key, error) {
	excluded := make(map[int]struct{}, len(exclude))
	for _, name := range exclude {
		i := names.Index(name)
		if i < 0 {
			return nil, errors.NewInvalidDimensionError("modelkey.Project", name, names)
		}
		excluded[i] = struct{}{}
	}
	if err := names.Validate(k); err != nil {
		return nil, err
	}
	return project(k, excluded), nil
}

func project(k Key, excluded map[int]struct{}) Key {
	out := make(Key, 0, len(k)-len(excluded))
	for i, v := range k {
		if _, skip := excluded[i]; skip {
			continue
		}
		out = append(out, v)
	}
	return out
}
