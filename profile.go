package sacamantecas

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Recognized profile configuration keys.
const (
	KeyURI        = "uri"
	KeyTag        = "m_tag"
	KeyAttr       = "m_attr"
	KeyValue      = "m_value"
	KeyKeyClass   = "k_class"
	KeyValueClass = "v_class"
)

var (
	tagAttributeKeys = []string{KeyTag, KeyAttr, KeyValue}
	classPairKeys    = []string{KeyKeyClass, KeyValueClass}
)

// Strategy is the metadata extraction algorithm selected by a profile.
// It is implemented only by TagAttributeStrategy and ClassPairStrategy.
type Strategy interface {
	// Name returns the strategy identifier ("tag_attribute" or "class_pair").
	Name() string

	strategy()
}

// TagAttributeStrategy finds metadata inside container elements named Tag
// that carry Attr="Value". Each container holds labeled sub-items.
type TagAttributeStrategy struct {
	Tag   string
	Attr  string
	Value string
}

// Name returns "tag_attribute".
func (TagAttributeStrategy) Name() string { return "tag_attribute" }

func (TagAttributeStrategy) strategy() {}

// String returns a selector-like description, e.g. dl[class="docu_etiq"].
func (s TagAttributeStrategy) String() string {
	return fmt.Sprintf("%s[%s=%q]", s.Tag, s.Attr, s.Value)
}

// ClassPairStrategy finds metadata keys and values as separate elements whose
// class attribute matches KeyClass or ValueClass. Keys and values are paired
// by their position in document order.
type ClassPairStrategy struct {
	KeyClass   *regexp.Regexp
	ValueClass *regexp.Regexp
}

// Name returns "class_pair".
func (ClassPairStrategy) Name() string { return "class_pair" }

func (ClassPairStrategy) strategy() {}

// String returns a description of both class patterns.
func (s ClassPairStrategy) String() string {
	return fmt.Sprintf("key=/%s/ value=/%s/", s.KeyClass, s.ValueClass)
}

// Profile describes how to recognize and parse the pages of one catalog.
// Profiles are immutable once built by NewProfile.
type Profile struct {
	Name       string
	URIPattern *regexp.Regexp
	Strategy   Strategy
}

// Matches reports whether uri contains a match of the profile's URI pattern.
func (p *Profile) Matches(uri string) bool {
	return p.URIPattern.MatchString(uri)
}

// ProfileConfig is one raw profile section as read from configuration.
type ProfileConfig struct {
	Name   string
	Fields map[string]string
}

// NewProfile validates a configuration section and builds a Profile.
// Returns ECONFIG if the section is incomplete, ambiguous, or carries a
// pattern that does not compile.
func NewProfile(cfg ProfileConfig) (*Profile, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, Errorf(ECONFIG, "profile name required")
	}

	if unknown := unknownKeys(cfg.Fields); len(unknown) > 0 {
		return nil, Errorf(ECONFIG, "profile %q: unknown keys %s", cfg.Name, strings.Join(unknown, ", "))
	}

	uri, ok := cfg.Fields[KeyURI]
	if !ok || strings.TrimSpace(uri) == "" {
		return nil, Errorf(ECONFIG, "profile %q: %s required", cfg.Name, KeyURI)
	}
	uriPattern, err := regexp.Compile(uri)
	if err != nil {
		return nil, Errorf(ECONFIG, "profile %q: invalid %s pattern: %v", cfg.Name, KeyURI, err)
	}

	tagSet := presentKeys(cfg.Fields, tagAttributeKeys)
	classSet := presentKeys(cfg.Fields, classPairKeys)

	var strategy Strategy
	switch {
	case len(tagSet) > 0 && len(classSet) > 0:
		return nil, Errorf(ECONFIG, "profile %q: declares both tag/attribute (%s) and class-pair (%s) fields",
			cfg.Name, strings.Join(tagSet, ", "), strings.Join(classSet, ", "))
	case len(tagSet) == 0 && len(classSet) == 0:
		return nil, Errorf(ECONFIG, "profile %q: no extraction strategy, need %s or %s",
			cfg.Name, strings.Join(tagAttributeKeys, "+"), strings.Join(classPairKeys, "+"))
	case len(tagSet) > 0:
		strategy, err = newTagAttributeStrategy(cfg)
	default:
		strategy, err = newClassPairStrategy(cfg)
	}
	if err != nil {
		return nil, err
	}

	return &Profile{
		Name:       cfg.Name,
		URIPattern: uriPattern,
		Strategy:   strategy,
	}, nil
}

func newTagAttributeStrategy(cfg ProfileConfig) (Strategy, error) {
	if missing := missingKeys(cfg.Fields, tagAttributeKeys); len(missing) > 0 {
		return nil, Errorf(ECONFIG, "profile %q: incomplete tag/attribute strategy, missing %s",
			cfg.Name, strings.Join(missing, ", "))
	}
	// The HTML parser lowercases tag and attribute names.
	return TagAttributeStrategy{
		Tag:   strings.ToLower(strings.TrimSpace(cfg.Fields[KeyTag])),
		Attr:  strings.ToLower(strings.TrimSpace(cfg.Fields[KeyAttr])),
		Value: cfg.Fields[KeyValue],
	}, nil
}

func newClassPairStrategy(cfg ProfileConfig) (Strategy, error) {
	if missing := missingKeys(cfg.Fields, classPairKeys); len(missing) > 0 {
		return nil, Errorf(ECONFIG, "profile %q: incomplete class-pair strategy, missing %s",
			cfg.Name, strings.Join(missing, ", "))
	}

	kText, vText := cfg.Fields[KeyKeyClass], cfg.Fields[KeyValueClass]
	kClass, err := regexp.Compile(kText)
	if err != nil {
		return nil, Errorf(ECONFIG, "profile %q: invalid %s pattern: %v", cfg.Name, KeyKeyClass, err)
	}
	vClass, err := regexp.Compile(vText)
	if err != nil {
		return nil, Errorf(ECONFIG, "profile %q: invalid %s pattern: %v", cfg.Name, KeyValueClass, err)
	}

	// Keys and values must be told apart on the literal class names the
	// patterns were written for.
	if kText == vText || kClass.MatchString(vText) || vClass.MatchString(kText) {
		return nil, Errorf(ECONFIG, "profile %q: %s %q and %s %q match the same class",
			cfg.Name, KeyKeyClass, kText, KeyValueClass, vText)
	}

	return ClassPairStrategy{KeyClass: kClass, ValueClass: vClass}, nil
}

// presentKeys returns the keys from want that appear in fields.
func presentKeys(fields map[string]string, want []string) []string {
	var present []string
	for _, k := range want {
		if _, ok := fields[k]; ok {
			present = append(present, k)
		}
	}
	return present
}

// missingKeys returns the keys from want that are absent or blank in fields.
func missingKeys(fields map[string]string, want []string) []string {
	var missing []string
	for _, k := range want {
		if strings.TrimSpace(fields[k]) == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

func unknownKeys(fields map[string]string) []string {
	var unknown []string
	for k := range fields {
		switch k {
		case KeyURI, KeyTag, KeyAttr, KeyValue, KeyKeyClass, KeyValueClass:
		default:
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// Registry is the ordered, read-only set of configured profiles.
// It is safe for concurrent use because it is never mutated after creation.
type Registry struct {
	profiles []*Profile
	byName   map[string]*Profile
}

// NewRegistry builds a Registry that keeps profiles in the given order.
// Returns ECONFIG if a profile is nil or two profiles share a name.
func NewRegistry(profiles ...*Profile) (*Registry, error) {
	r := &Registry{
		profiles: make([]*Profile, 0, len(profiles)),
		byName:   make(map[string]*Profile, len(profiles)),
	}
	for i, p := range profiles {
		if p == nil {
			return nil, Errorf(ECONFIG, "profile #%d is nil", i+1)
		}
		if _, exists := r.byName[p.Name]; exists {
			return nil, Errorf(ECONFIG, "duplicate profile name %q", p.Name)
		}
		r.byName[p.Name] = p
		r.profiles = append(r.profiles, p)
	}
	return r, nil
}

// LoadRegistry builds a Registry from raw configuration sections, in order.
// The first invalid section aborts loading with ECONFIG.
func LoadRegistry(configs []ProfileConfig) (*Registry, error) {
	profiles := make([]*Profile, 0, len(configs))
	for _, cfg := range configs {
		p, err := NewProfile(cfg)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return NewRegistry(profiles...)
}

// Profiles returns all profiles in registration order.
func (r *Registry) Profiles() []*Profile {
	out := make([]*Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Profile returns the profile registered under name.
func (r *Registry) Profile(name string) (*Profile, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	return len(r.profiles)
}
