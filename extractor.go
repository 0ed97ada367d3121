package sacamantecas

// Extractor applies a profile's strategy to an HTML page.
type Extractor interface {
	// Extract parses html and returns the metadata entries found by the
	// profile's strategy, in document order. A page without metadata
	// yields an empty result, not an error. Returns EMALFORMED if the
	// document cannot be parsed.
	Extract(profile *Profile, html string) (*ExtractionResult, error)
}
