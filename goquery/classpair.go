package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sacamantecas"
	"golang.org/x/net/html"
)

// maxReportedTexts caps how many unpaired texts a warning lists.
const maxReportedTexts = 5

// extractClassPair pairs key and value elements by document order.
// goquery returns matches in document order, which is the depth-first
// order the pairing relies on.
func extractClassPair(doc *goquery.Document, s sacamantecas.ClassPairStrategy, result *sacamantecas.ExtractionResult) {
	var keys, values []*html.Node

	doc.Find("[class]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		isKey := s.KeyClass.MatchString(class)
		isValue := s.ValueClass.MatchString(class)

		switch {
		case isKey && isValue:
			result.Warn(sacamantecas.Warnf(sacamantecas.WarnAmbiguousElement,
				"element <%s class=%q> matches both key and value patterns, taken as key",
				goquery.NodeName(sel), class))
			keys = append(keys, sel.Get(0))
		case isKey:
			keys = append(keys, sel.Get(0))
		case isValue:
			values = append(values, sel.Get(0))
		}
	})

	n := min(len(keys), len(values))
	for i := 0; i < n; i++ {
		result.Entries = append(result.Entries, sacamantecas.MetadataEntry{
			Key:   sacamantecas.NormalizeKey(textOf(keys[i])),
			Value: textOf(values[i]),
		})
	}

	if extra := keys[n:]; len(extra) > 0 {
		result.Warn(sacamantecas.Warnf(sacamantecas.WarnUnpairedKeys,
			"%d key elements without value: %s", len(extra), describe(extra)))
	}
	if extra := values[n:]; len(extra) > 0 {
		result.Warn(sacamantecas.Warnf(sacamantecas.WarnUnpairedValues,
			"%d value elements without key: %s", len(extra), describe(extra)))
	}
}

// describe lists the quoted texts of nodes, truncated to maxReportedTexts.
func describe(nodes []*html.Node) string {
	var parts []string
	for i, n := range nodes {
		if i == maxReportedTexts {
			parts = append(parts, fmt.Sprintf("and %d more", len(nodes)-i))
			break
		}
		parts = append(parts, fmt.Sprintf("%q", textOf(n)))
	}
	return strings.Join(parts, ", ")
}
