// Package textutil provides filename sanitization and fuzzy name matching.
//
// Sector names come from user input and from TravellerMap, so they are
// sanitized before becoming path segments. Fuzzy matching uses character
// trigram fingerprints compared by cosine similarity, which tolerates typos
// and partial names ("spinward" for "Spinward Marches").
package textutil
