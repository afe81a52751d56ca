// Package taxonomy provides the hierarchical skill knowledge base used to
// explain and boost semantic matches between job requirements and resumes.
package taxonomy

import "sort"

// SkillEntry is one node of the taxonomy: a canonical skill with the
// categories it belongs to and the skills it is commonly used alongside.
type SkillEntry struct {
	Name     string   `yaml:"name" json:"name" validate:"required,lowercase"`
	Category string   `yaml:"category" json:"category" validate:"required"`
	Parents  []string `yaml:"parents,omitempty" json:"parents,omitempty" validate:"dive,required"`
	Related  []string `yaml:"related,omitempty" json:"related,omitempty" validate:"dive,required"`
}

// Document is the on-disk shape of a taxonomy file.
type Document struct {
	Skills  []SkillEntry      `yaml:"skills" json:"skills" validate:"required,min=1,dive"`
	Aliases map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Set is an unordered collection of skill or category names.
type Set map[string]struct{}

// Add inserts name into the set.
func (s Set) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ReverseIndex holds the lookups derived from the forward declarations in
// the skill entries. It is built once and never mutated afterwards.
type ReverseIndex struct {
	// ParentToChildren maps a category to the skills that declare it as a parent.
	ParentToChildren map[string]Set
	// RelatedIndex maps a skill to every skill it is related to, in both
	// directions.
	RelatedIndex map[string]Set
}

// BuildReverseIndex inverts the parents and related declarations of entries.
func BuildReverseIndex(entries []SkillEntry) ReverseIndex {
	idx := ReverseIndex{
		ParentToChildren: make(map[string]Set),
		RelatedIndex:     make(map[string]Set),
	}

	for _, entry := range entries {
		skill := normalizeName(entry.Name)

		for _, parent := range entry.Parents {
			parent = normalizeName(parent)
			addEdge(idx.ParentToChildren, parent, skill)
		}

		for _, related := range entry.Related {
			related = normalizeName(related)
			addEdge(idx.RelatedIndex, related, skill)
			addEdge(idx.RelatedIndex, skill, related)
		}
	}

	return idx
}

func addEdge(index map[string]Set, from, to string) {
	set, ok := index[from]
	if !ok {
		set = make(Set)
		index[from] = set
	}
	set.Add(to)
}
