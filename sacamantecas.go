// Package sacamantecas extracts bibliographic and museum-catalog metadata
// from the HTML pages of online catalogs. A page's URI selects one of the
// configured profiles, and the profile's extraction strategy turns the
// page into an ordered list of key/value metadata entries.
//
// This package contains domain types, interfaces and the pure extraction
// engine, following Ben Johnson's Standard Package Layout. Implementations
// that depend on third-party libraries live in subdirectories named after
// their primary dependency (e.g., goquery/, sqlite/, excelize/).
package sacamantecas
