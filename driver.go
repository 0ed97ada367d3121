package sacamantecas

import (
	"io"
	"strings"
)

// Driver composes a Resolver and an Extractor into the single entry point
// used by callers. It performs no I/O and holds no state, so one Driver may
// serve any number of concurrent calls.
type Driver struct {
	Resolver  Resolver
	Extractor Extractor
}

// NewDriver returns a Driver using the given resolver and extractor.
func NewDriver(resolver Resolver, extractor Extractor) *Driver {
	return &Driver{Resolver: resolver, Extractor: extractor}
}

// Process resolves the profile for uri and extracts metadata from html.
// Returns ENOMATCH when no profile matches and EMALFORMED when the document
// cannot be parsed. An ambiguous profile match is reported as a warning.
func (d *Driver) Process(uri, html string) (*ExtractionResult, error) {
	res, err := d.Resolver.Resolve(uri)
	if err != nil {
		return nil, err
	}

	result, err := d.Extractor.Extract(res.Profile, html)
	if err != nil {
		if ErrorCode(err) == EINTERNAL {
			return nil, Errorf(EMALFORMED, "parsing %s: %v", uri, err)
		}
		return nil, err
	}

	result.URI = uri
	result.Profile = res.Profile
	if res.Ambiguous() {
		// Prepend so the profile choice is reported before extraction warnings.
		result.Warnings = append([]Warning{
			Warnf(WarnAmbiguousProfile, "%d profiles match, using %q (candidates: %s)",
				len(res.Candidates), res.Profile.Name, strings.Join(res.CandidateNames(), ", ")),
		}, result.Warnings...)
	}
	return result, nil
}

// ProcessReader is like Process but reads the document from r.
// Read failures are reported as EMALFORMED.
func (d *Driver) ProcessReader(uri string, r io.Reader) (*ExtractionResult, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, Errorf(EMALFORMED, "reading document for %s: %v", uri, err)
	}
	return d.Process(uri, string(b))
}
