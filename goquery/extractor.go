// Package goquery implements sacamantecas.Extractor on top of goquery and
// the golang.org/x/net/html parser.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sacamantecas"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Ensure Extractor implements sacamantecas.Extractor at compile time.
var _ sacamantecas.Extractor = (*Extractor)(nil)

// Extractor extracts catalog metadata using either the tag/attribute or
// the class-pair strategy of a profile. It holds no state and is safe for
// concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses htmlSource and applies the profile's strategy.
func (e *Extractor) Extract(profile *sacamantecas.Profile, htmlSource string) (*sacamantecas.ExtractionResult, error) {
	if profile == nil {
		return nil, sacamantecas.Errorf(sacamantecas.EINVALID, "profile required")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(toUTF8(htmlSource)))
	if err != nil {
		return nil, sacamantecas.Errorf(sacamantecas.EMALFORMED, "failed to parse HTML: %v", err)
	}

	return e.ExtractDocument(profile, doc)
}

// ExtractDocument applies the profile's strategy to an already parsed document.
func (e *Extractor) ExtractDocument(profile *sacamantecas.Profile, doc *goquery.Document) (*sacamantecas.ExtractionResult, error) {
	result := &sacamantecas.ExtractionResult{Profile: profile}

	switch s := profile.Strategy.(type) {
	case sacamantecas.TagAttributeStrategy:
		extractTagAttribute(doc, s, result)
	case sacamantecas.ClassPairStrategy:
		extractClassPair(doc, s, result)
	default:
		return nil, sacamantecas.Errorf(sacamantecas.EINVALID, "profile %q has no extraction strategy", profile.Name)
	}

	return result, nil
}

// toUTF8 decodes a document that is not UTF-8, such as a saved latin-1
// catalog page. The encoding comes from its <meta> charset, falling back
// to windows-1252.
func toUTF8(src string) string {
	if utf8.ValidString(src) {
		return src
	}
	enc, _, _ := charset.DetermineEncoding([]byte(src), "")
	decoded, err := enc.NewDecoder().String(src)
	if err != nil {
		return strings.ToValidUTF8(src, "\uFFFD")
	}
	return decoded
}

// extractTagAttribute collects entries from every container element.
// A container nested in another container is read as part of the outer one.
func extractTagAttribute(doc *goquery.Document, s sacamantecas.TagAttributeStrategy, result *sacamantecas.ExtractionResult) {
	isContainer := func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != s.Tag {
			return false
		}
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == s.Attr {
				return a.Val == s.Value
			}
		}
		return false
	}

	doc.Find("*").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		n := sel.Get(0)
		if !isContainer(n) {
			return false
		}
		for p := n.Parent; p != nil; p = p.Parent {
			if isContainer(p) {
				return false
			}
		}
		return true
	}).Each(func(_ int, container *goquery.Selection) {
		result.Entries = append(result.Entries, containerEntries(container.Get(0))...)
	})
}

// pendingEntry is a dt label waiting for its dd content.
type pendingEntry struct {
	key    string
	values []string
}

// containerEntries reads the labeled sub-items of a container: dt/dd runs,
// table rows, and children made of a label element followed by content.
// A container with none of those is read as a single label/content item.
func containerEntries(container *html.Node) []sacamantecas.MetadataEntry {
	var entries []sacamantecas.MetadataEntry
	var pending *pendingEntry

	flush := func() {
		if pending == nil {
			return
		}
		entries = append(entries, sacamantecas.MetadataEntry{
			Key:   pending.key,
			Value: strings.Join(pending.values, " / "),
		})
		pending = nil
	}

	var visit func(parent *html.Node)
	visit = func(parent *html.Node) {
		for _, c := range elementChildren(parent) {
			switch c.DataAtom {
			case atom.Dt:
				flush()
				pending = &pendingEntry{key: sacamantecas.NormalizeKey(textOf(c))}
			case atom.Dd:
				if pending == nil {
					pending = &pendingEntry{}
				}
				pending.values = append(pending.values, textOf(c))
			case atom.Table, atom.Thead, atom.Tbody, atom.Tfoot:
				flush()
				visit(c)
			case atom.Tr:
				flush()
				if entry, ok := labeledEntry(cells(c)); ok {
					entries = append(entries, entry)
				}
			default:
				// HTML allows dt/dd groups wrapped in a div inside a dl, and
				// catalogs often wrap their record table in a layout element.
				if hasDefinitionChildren(c) || onlyTables(c) {
					visit(c)
					continue
				}
				flush()
				if entry, ok := itemEntry(c); ok {
					entries = append(entries, entry)
				}
			}
		}
	}
	visit(container)
	flush()

	if len(entries) == 0 {
		if entry, ok := itemEntry(container); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// itemEntry reads one labeled item: either a label element followed by
// content elements, or a label element followed by bare text as in
// <p><b>Autor:</b> García Márquez</p>.
func itemEntry(n *html.Node) (sacamantecas.MetadataEntry, bool) {
	children := elementChildren(n)
	if len(children) >= 2 {
		return labeledEntry(children)
	}
	if len(children) == 1 {
		var rest []*html.Node
		for s := children[0].NextSibling; s != nil; s = s.NextSibling {
			rest = append(rest, s)
		}
		if value := textOf(rest...); value != "" {
			return sacamantecas.MetadataEntry{
				Key:   sacamantecas.NormalizeKey(textOf(children[0])),
				Value: value,
			}, true
		}
	}
	return sacamantecas.MetadataEntry{}, false
}

// labeledEntry reads the first node as the label and the rest as content.
func labeledEntry(nodes []*html.Node) (sacamantecas.MetadataEntry, bool) {
	if len(nodes) < 2 {
		return sacamantecas.MetadataEntry{}, false
	}
	return sacamantecas.MetadataEntry{
		Key:   sacamantecas.NormalizeKey(textOf(nodes[0])),
		Value: joinTexts(nodes[1:]),
	}, true
}

// cells returns the th and td children of a table row.
func cells(tr *html.Node) []*html.Node {
	var out []*html.Node
	for _, c := range elementChildren(tr) {
		if c.DataAtom == atom.Th || c.DataAtom == atom.Td {
			out = append(out, c)
		}
	}
	return out
}

// onlyTables reports whether every element child of n is a table, a table
// section or a row.
func onlyTables(n *html.Node) bool {
	children := elementChildren(n)
	if len(children) == 0 {
		return false
	}
	for _, c := range children {
		switch c.DataAtom {
		case atom.Table, atom.Thead, atom.Tbody, atom.Tfoot, atom.Tr:
		default:
			return false
		}
	}
	return true
}

func hasDefinitionChildren(n *html.Node) bool {
	for _, c := range elementChildren(n) {
		if c.DataAtom == atom.Dt || c.DataAtom == atom.Dd {
			return true
		}
	}
	return false
}
