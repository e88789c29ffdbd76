package translate

import (
	"regexp"
	"sort"
	"strings"
)

var (
	diaDePrefix         = regexp.MustCompile(`(?i)^día de `)
	diaNacionalDePrefix = regexp.MustCompile(`(?i)^día nacional de `)
	inmortalidadGeneral = regexp.MustCompile(`(?i)paso a la inmortalidad del general `)
	inmortalidadDe      = regexp.MustCompile(`(?i)paso a la inmortalidad de `)
	trailingKind        = regexp.MustCompile(`\(([^()]+)\)\s*$`)
)

// Rule is one step of a translation chain. Apply returns the translation
// and true when the rule matches.
type Rule struct {
	Name  string
	Apply func(s string) (string, bool)
}

// Translator translates Spanish holiday names and descriptions to English.
// It is pure and total: unmapped input is returned unchanged.
type Translator struct {
	names      map[string]string
	lowerNames map[string]string
	nameRules  []Rule
	descRules  []Rule
}

// New creates a Translator from the curated table merged with overrides
func New(overrides map[string]string) *Translator {
	names := make(map[string]string, len(defaultNames)+len(overrides))
	for k, v := range defaultNames {
		names[k] = v
	}
	for k, v := range overrides {
		k = strings.TrimSpace(k)
		if k == "" || v == "" {
			continue
		}
		// Config keys may arrive lowercased, so an override replaces every spelling
		for existing := range names {
			if strings.EqualFold(existing, k) {
				delete(names, existing)
			}
		}
		names[k] = v
	}

	// Sorted so the case-insensitive table is deterministic when keys differ only by case
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lowerNames := make(map[string]string, len(names))
	for _, k := range keys {
		lk := strings.ToLower(k)
		if _, exists := lowerNames[lk]; !exists {
			lowerNames[lk] = names[k]
		}
	}

	t := &Translator{names: names, lowerNames: lowerNames}
	t.nameRules = t.buildNameRules()
	t.descRules = buildDescriptionRules()
	return t
}

// TranslateName translates a holiday name
func (t *Translator) TranslateName(name string) string {
	return apply(t.nameRules, strings.TrimSpace(name))
}

// TranslateDescription translates a holiday description. kind is an optional
// source type hint such as "inamovible".
func (t *Translator) TranslateDescription(desc, kind string) string {
	if kind = strings.TrimSpace(kind); kind != "" {
		if strings.Contains(strings.ToLower(desc), "feriado oficial") {
			return "Official holiday (" + TranslateKind(kind) + ")"
		}
	}
	return apply(t.descRules, desc)
}

// NameRules returns the rule names of the name chain in evaluation order
func (t *Translator) NameRules() []string {
	return ruleNames(t.nameRules)
}

// DescriptionRules returns the rule names of the description chain in evaluation order
func (t *Translator) DescriptionRules() []string {
	return ruleNames(t.descRules)
}

func (t *Translator) buildNameRules() []Rule {
	return []Rule{
		{Name: "exact", Apply: func(s string) (string, bool) {
			v, ok := t.names[s]
			return v, ok
		}},
		{Name: "case-insensitive", Apply: func(s string) (string, bool) {
			v, ok := t.lowerNames[strings.ToLower(s)]
			return v, ok
		}},
		{Name: "dia-de", Apply: func(s string) (string, bool) {
			loc := diaDePrefix.FindStringIndex(s)
			if loc == nil {
				return "", false
			}
			rest := s[loc[1]:]
			if v, ok := t.names["Día de "+rest]; ok {
				return v, true
			}
			return "Day of " + rest, true
		}},
		{Name: "dia-nacional-de", Apply: func(s string) (string, bool) {
			loc := diaNacionalDePrefix.FindStringIndex(s)
			if loc == nil {
				return "", false
			}
			return "National Day of " + s[loc[1]:], true
		}},
		{Name: "paso-a-la-inmortalidad", Apply: func(s string) (string, bool) {
			if !strings.Contains(s, "Paso a la Inmortalidad") {
				return "", false
			}
			person := inmortalidadGeneral.ReplaceAllString(s, "")
			person = inmortalidadDe.ReplaceAllString(person, "")
			return "Passing to Immortality of General " + person, true
		}},
		{Name: "puente", Apply: func(s string) (string, bool) {
			lower := strings.ToLower(s)
			if !strings.Contains(lower, "puente") {
				return "", false
			}
			if strings.Contains(lower, "turístico") {
				return "Tourist Bridge Holiday", true
			}
			return "Bridge Holiday", true
		}},
		identity,
	}
}

func buildDescriptionRules() []Rule {
	return []Rule{
		{Name: "feriado-oficial", Apply: func(s string) (string, bool) {
			if strings.Contains(strings.ToLower(s), "feriado oficial") {
				return "Official holiday", true
			}
			return "", false
		}},
		{Name: "puente-turistico", Apply: func(s string) (string, bool) {
			if strings.Contains(strings.ToLower(s), "puente turístico") {
				return "Tourist bridge holiday", true
			}
			return "", false
		}},
		{Name: "puente", Apply: func(s string) (string, bool) {
			if strings.Contains(strings.ToLower(s), "puente") {
				return "Bridge holiday", true
			}
			return "", false
		}},
		identity,
	}
}

var identity = Rule{Name: "identity", Apply: func(s string) (string, bool) { return s, true }}

func apply(rules []Rule, s string) string {
	for _, rule := range rules {
		if out, ok := rule.Apply(s); ok {
			return out
		}
	}
	return s
}

func ruleNames(rules []Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

// TranslateKind maps a source holiday type to English. Exact matches win,
// then the first table entry contained in kind. Unknown kinds pass through.
func TranslateKind(kind string) string {
	lower := strings.ToLower(strings.TrimSpace(kind))
	for _, k := range kinds {
		if lower == k.spanish {
			return k.english
		}
	}
	for _, k := range kinds {
		if strings.Contains(lower, k.spanish) {
			return k.english
		}
	}
	return kind
}

// KindFromDescription extracts the type hint from descriptions shaped like
// "Feriado oficial (inamovible)". It returns "" when there is none.
func KindFromDescription(desc string) string {
	m := trailingKind.FindStringSubmatch(desc)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
