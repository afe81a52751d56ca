package taxonomy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// node is a skill in the taxonomy graph with its two labeled edge sets.
type node struct {
	entry   SkillEntry
	parents Set // is-a edges
	related Set // related-to edges, as declared
}

// termPattern is a precompiled word-boundary matcher for one vocabulary term.
type termPattern struct {
	canonical string
	re        *regexp.Regexp
}

// Taxonomy is an immutable skill graph. A single value is safe for
// concurrent use by any number of readers.
type Taxonomy struct {
	nodes   map[string]*node
	names   []string // sorted skill keys
	aliases map[string]string
	index   ReverseIndex

	skillPatterns []termPattern // keys and aliases
	termPatterns  []termPattern // keys, aliases and categories
}

// New builds a taxonomy from skill entries and an optional alias table
// (variant -> canonical skill name). Duplicate skill names are rejected.
func New(entries []SkillEntry, aliases map[string]string) (*Taxonomy, error) {
	t := &Taxonomy{
		nodes:   make(map[string]*node, len(entries)),
		aliases: make(map[string]string, len(aliases)),
	}

	normalized := make([]SkillEntry, 0, len(entries))
	for _, entry := range entries {
		name := normalizeName(entry.Name)
		if name == "" {
			return nil, &ValidationError{Field: "name", Message: "skill name is empty"}
		}
		if _, dup := t.nodes[name]; dup {
			return nil, &ValidationError{Field: "name", Message: fmt.Sprintf("duplicate skill %q", name)}
		}

		n := &node{
			entry: SkillEntry{
				Name:     name,
				Category: strings.TrimSpace(entry.Category),
				Parents:  normalizeAll(entry.Parents),
				Related:  normalizeAll(entry.Related),
			},
			parents: make(Set),
			related: make(Set),
		}
		for _, p := range n.entry.Parents {
			n.parents.Add(p)
		}
		for _, r := range n.entry.Related {
			n.related.Add(r)
		}

		t.nodes[name] = n
		t.names = append(t.names, name)
		normalized = append(normalized, n.entry)
	}
	sort.Strings(t.names)

	for variant, canonical := range aliases {
		variant = normalizeName(variant)
		canonical = normalizeName(canonical)
		if _, ok := t.nodes[canonical]; !ok {
			return nil, &ValidationError{
				Field:   "aliases",
				Message: fmt.Sprintf("alias %q points to unknown skill %q", variant, canonical),
			}
		}
		if _, clash := t.nodes[variant]; clash {
			return nil, &ValidationError{
				Field:   "aliases",
				Message: fmt.Sprintf("alias %q shadows a registered skill", variant),
			}
		}
		t.aliases[variant] = canonical
	}

	t.index = BuildReverseIndex(normalized)
	t.buildPatterns()

	return t, nil
}

func (t *Taxonomy) buildPatterns() {
	for _, name := range t.names {
		t.skillPatterns = append(t.skillPatterns, newTermPattern(name, name))
	}

	variants := make([]string, 0, len(t.aliases))
	for variant := range t.aliases {
		variants = append(variants, variant)
	}
	sort.Strings(variants)
	for _, variant := range variants {
		t.skillPatterns = append(t.skillPatterns, newTermPattern(variant, t.aliases[variant]))
	}

	t.termPatterns = append(t.termPatterns, t.skillPatterns...)
	for _, category := range t.Categories() {
		if _, isSkill := t.nodes[category]; isSkill {
			continue
		}
		t.termPatterns = append(t.termPatterns, newTermPattern(category, category))
	}
}

func newTermPattern(term, canonical string) termPattern {
	return termPattern{
		canonical: canonical,
		re:        regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`),
	}
}

// Len returns the number of registered skills.
func (t *Taxonomy) Len() int {
	return len(t.names)
}

// Names returns every registered skill in lexical order.
func (t *Taxonomy) Names() []string {
	return append([]string(nil), t.names...)
}

// Categories returns every name that at least one skill declares as a parent.
func (t *Taxonomy) Categories() []string {
	out := make([]string, 0, len(t.index.ParentToChildren))
	for category := range t.index.ParentToChildren {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

// Canonical lower-cases a skill name and folds known spelling variants onto
// the registered skill ("ReactJS" -> "react").
func (t *Taxonomy) Canonical(skill string) string {
	name := normalizeName(skill)
	if canonical, ok := t.aliases[name]; ok {
		return canonical
	}
	return name
}

// Contains reports whether skill (after canonicalisation) is a registered skill.
func (t *Taxonomy) Contains(skill string) bool {
	_, ok := t.nodes[t.Canonical(skill)]
	return ok
}

// Entry returns a copy of the entry for skill.
func (t *Taxonomy) Entry(skill string) (SkillEntry, bool) {
	n, ok := t.nodes[t.Canonical(skill)]
	if !ok {
		return SkillEntry{}, false
	}
	return SkillEntry{
		Name:     n.entry.Name,
		Category: n.entry.Category,
		Parents:  append([]string(nil), n.entry.Parents...),
		Related:  append([]string(nil), n.entry.Related...),
	}, true
}

// Parents returns the categories skill belongs to. Unknown skills have none.
func (t *Taxonomy) Parents(skill string) []string {
	n, ok := t.nodes[t.Canonical(skill)]
	if !ok {
		return []string{}
	}
	return n.parents.Sorted()
}

// Children returns the skills registered under category.
func (t *Taxonomy) Children(category string) []string {
	children, ok := t.index.ParentToChildren[normalizeName(category)]
	if !ok {
		return []string{}
	}
	return children.Sorted()
}

// Related returns the skills associated with skill in either direction.
func (t *Taxonomy) Related(skill string) []string {
	return t.relatedSet(t.Canonical(skill)).Sorted()
}

// Expand returns skill together with its parents and related skills.
func (t *Taxonomy) Expand(skill string) []string {
	name := t.Canonical(skill)
	out := make(Set)
	if name == "" {
		return []string{}
	}
	out.Add(name)
	for _, p := range t.Parents(name) {
		out.Add(p)
	}
	for r := range t.relatedSet(name) {
		out.Add(r)
	}
	return out.Sorted()
}

// ExtractKnownSkills returns the registered skills mentioned in text,
// matched on word boundaries. Aliases are reported under their canonical name.
func (t *Taxonomy) ExtractKnownSkills(text string) []string {
	return scan(t.skillPatterns, text)
}

// ExtractKnownTerms is ExtractKnownSkills extended with category names, so
// that a requirement phrased as "frontend development" is recognised.
func (t *Taxonomy) ExtractKnownTerms(text string) []string {
	return scan(t.termPatterns, text)
}

// MentionsSkill reports whether text mentions at least one registered skill.
func (t *Taxonomy) MentionsSkill(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range t.skillPatterns {
		if p.re.MatchString(lower) {
			return true
		}
	}
	return false
}

// Index returns the derived reverse index. Callers must treat it as read-only.
func (t *Taxonomy) Index() ReverseIndex {
	return t.index
}

func (t *Taxonomy) relatedSet(name string) Set {
	out := make(Set)
	if n, ok := t.nodes[name]; ok {
		for r := range n.related {
			out.Add(r)
		}
	}
	for r := range t.index.RelatedIndex[name] {
		out.Add(r)
	}
	return out
}

func (t *Taxonomy) parentSet(name string) Set {
	if n, ok := t.nodes[name]; ok {
		return n.parents
	}
	return nil
}

func scan(patterns []termPattern, text string) []string {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return []string{}
	}

	seen := make(Set)
	found := make([]string, 0)
	for _, p := range patterns {
		if seen.Has(p.canonical) {
			continue
		}
		if p.re.MatchString(lower) {
			seen.Add(p.canonical)
			found = append(found, p.canonical)
		}
	}
	return found
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(Set)
	for _, name := range names {
		n := normalizeName(name)
		if n == "" || seen.Has(n) {
			continue
		}
		seen.Add(n)
		out = append(out, n)
	}
	return out
}
