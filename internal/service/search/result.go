package search

import (
	"fmt"
	"strings"
)

const (
	disabledSentinel  = "[Búsqueda deshabilitada: falta GOOGLE_API_KEY o GOOGLE_CSE_ID]"
	noResultsSentinel = "[Sin resultados en Google]"
)

// Kind tags the outcome of one search attempt.
type Kind int

const (
	// Disabled means the required credentials are absent. It is a normal
	// outcome, not a failure.
	Disabled Kind = iota
	// Failed means the single outbound attempt did not produce results.
	Failed
	// NoResults means the service answered with zero hits.
	NoResults
	// Found means the service answered with at least one hit.
	Found
)

// Item is one search hit as returned by the Custom Search API.
type Item struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Result is the tagged outcome of a search. Failures travel as values, not
// errors; String renders the exact user-visible text for every kind.
type Result struct {
	Kind  Kind
	Items []Item
	Err   error
}

// String renders the result body sent back to the client: the fixed Spanish
// sentinels for the degenerate kinds, or a 1-indexed entry per hit with
// title, snippet and link on separate lines and a blank line between entries.
func (r Result) String() string {
	switch r.Kind {
	case Disabled:
		return disabledSentinel
	case Failed:
		return fmt.Sprintf("[Error en búsqueda: %v]", r.Err)
	case NoResults:
		return noResultsSentinel
	}

	entries := make([]string, 0, len(r.Items))
	for i, item := range r.Items {
		entries = append(entries, fmt.Sprintf("%d. %s\n%s\n%s\n", i+1, item.Title, item.Snippet, item.Link))
	}
	return strings.Join(entries, "\n")
}
