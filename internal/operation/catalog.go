package operation

import "sort"

var catalog = buildCatalog()

func buildCatalog() []*Definition {
	var defs []*Definition
	defs = append(defs, spaceDefinitions()...)
	defs = append(defs, pageDefinitions()...)
	defs = append(defs, commentDefinitions()...)
	defs = append(defs, labelDefinitions()...)
	defs = append(defs, attachmentDefinitions()...)
	defs = append(defs, searchDefinitions()...)
	return defs
}

// Catalog returns every command definition in registration order.
func Catalog() []*Definition {
	out := make([]*Definition, len(catalog))
	copy(out, catalog)
	return out
}

// find looks up a definition by group and name. Name is empty for
// commands that are a group on their own, such as search.
func find(group, name string) (*Definition, bool) {
	for _, def := range catalog {
		if def.Group == group && def.Name == name {
			return def, true
		}
	}
	return nil, false
}

// Groups lists the distinct groups, sorted.
func Groups() []string {
	seen := map[string]bool{}
	var groups []string
	for _, def := range catalog {
		if !seen[def.Group] {
			seen[def.Group] = true
			groups = append(groups, def.Group)
		}
	}
	sort.Strings(groups)
	return groups
}
