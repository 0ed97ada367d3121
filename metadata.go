package sacamantecas

import (
	"fmt"
	"strings"
)

// MetadataEntry is one key/value pair extracted from a catalog page.
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// WarningKind identifies a condition that did not stop extraction but
// should be surfaced to the user.
type WarningKind string

// Warning kinds reported in ExtractionResult.Warnings.
const (
	WarnAmbiguousProfile WarningKind = "ambiguous_profile"
	WarnUnpairedKeys     WarningKind = "unpaired_keys"
	WarnUnpairedValues   WarningKind = "unpaired_values"
	WarnAmbiguousElement WarningKind = "ambiguous_element"
)

// Warning describes a best-effort condition met while extracting.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// Warnf returns a Warning with a formatted message.
func Warnf(kind WarningKind, format string, args ...any) Warning {
	return Warning{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// String returns "kind: message".
func (w Warning) String() string {
	return string(w.Kind) + ": " + w.Message
}

// ExtractionResult is the ordered metadata found in one page.
// Entries keep document order; duplicate keys appear as separate entries.
type ExtractionResult struct {
	URI      string          `json:"uri"`
	Profile  *Profile        `json:"-"`
	Entries  []MetadataEntry `json:"entries"`
	Warnings []Warning       `json:"warnings,omitempty"`
}

// Empty reports whether no metadata was found.
func (r *ExtractionResult) Empty() bool {
	return len(r.Entries) == 0
}

// ProfileName returns the name of the profile used, or "" if none.
func (r *ExtractionResult) ProfileName() string {
	if r.Profile == nil {
		return ""
	}
	return r.Profile.Name
}

// Get returns the first value recorded for key.
func (r *ExtractionResult) Get(key string) (string, bool) {
	for _, e := range r.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Values returns every value recorded for key, in document order.
func (r *ExtractionResult) Values(key string) []string {
	var values []string
	for _, e := range r.Entries {
		if e.Key == key {
			values = append(values, e.Value)
		}
	}
	return values
}

// Keys returns the distinct keys in order of first appearance.
func (r *ExtractionResult) Keys() []string {
	seen := make(map[string]bool, len(r.Entries))
	var keys []string
	for _, e := range r.Entries {
		if !seen[e.Key] {
			seen[e.Key] = true
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Warn appends a warning to the result.
func (r *ExtractionResult) Warn(w Warning) {
	r.Warnings = append(r.Warnings, w)
}

// NormalizeText trims s and collapses every run of whitespace, including
// newlines and non-breaking spaces, into a single space.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeKey normalizes s like NormalizeText and drops one trailing colon,
// since catalogs usually print labels as "Autor:".
func NormalizeKey(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(NormalizeText(s), ":"))
}
