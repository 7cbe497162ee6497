// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesize

import "regexp"

// Colombian citation shapes: "Sentencia C-123 de 2023" / "T-025/04",
// "Ley 1581 de 2012", "Decreto 1074 de 2015", "Artículo 15".
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Sentencia\s+[CTU]-\d+(?:\s+de\s+\d{4}|/\d{2,4})?`),
	regexp.MustCompile(`(?i)Ley\s+\d+\s+de\s+\d{4}`),
	regexp.MustCompile(`(?i)Decreto\s+(?:Ley\s+)?\d+\s+de\s+\d{4}`),
	regexp.MustCompile(`(?i)Resolución\s+\d+\s+de\s+\d{4}`),
}

// citationRefs extracts the distinct norm and case references cited in text,
// in order of first appearance.
func citationRefs(text string) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, re := range citationPatterns {
		for _, m := range re.FindAllString(text, -1) {
			if !seen[m] {
				seen[m] = true
				refs = append(refs, m)
			}
		}
	}
	return refs
}
