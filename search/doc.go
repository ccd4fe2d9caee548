// Package search builds search queries and shapes search-engine hits for
// display.
//
//	params := search.Build("algebra", search.Filters{Type: search.TypeDocuments, Exact: true})
//	params.Encode() // "q=algebra&type=documents&exact=true"
package search
