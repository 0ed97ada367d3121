package sacamantecas

// Resolution is the outcome of matching a URI against the registry.
type Resolution struct {
	// Profile is the selected profile: the first match in registration order.
	Profile *Profile

	// Candidates holds every matching profile in registration order.
	Candidates []*Profile
}

// Ambiguous reports whether more than one profile matched.
func (r *Resolution) Ambiguous() bool {
	return len(r.Candidates) > 1
}

// CandidateNames returns the names of all matching profiles.
func (r *Resolution) CandidateNames() []string {
	names := make([]string, len(r.Candidates))
	for i, p := range r.Candidates {
		names[i] = p.Name
	}
	return names
}

// Resolver selects the profile for a URI.
type Resolver interface {
	// Resolve returns the profile whose URI pattern matches uri.
	// Returns ENOMATCH if no profile matches.
	Resolve(uri string) (*Resolution, error)
}

var _ Resolver = (*RegistryResolver)(nil)

// RegistryResolver resolves URIs against a Registry with first-match-wins
// semantics over registration order.
type RegistryResolver struct {
	registry *Registry
}

// NewResolver returns a RegistryResolver over reg.
func NewResolver(reg *Registry) *RegistryResolver {
	return &RegistryResolver{registry: reg}
}

// Resolve tests uri against every profile pattern (unanchored match).
// Multiple matches are not an error: the first one is selected and the
// resolution is marked ambiguous.
func (r *RegistryResolver) Resolve(uri string) (*Resolution, error) {
	var candidates []*Profile
	for _, p := range r.registry.profiles {
		if p.Matches(uri) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil, Errorf(ENOMATCH, "no profile matches %q", uri)
	}
	return &Resolution{Profile: candidates[0], Candidates: candidates}, nil
}
