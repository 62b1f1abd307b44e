// Package world decodes fixed-width astrographic records into World values and
// aggregates a subsector's raw text into an ordered slice of worlds.
//
// Decoding is positional: every field lives in a fixed column range of the
// line, and each UWP character is resolved through the lookup tables. Decode
// never fails loudly. A line that is too short or whose UWP is malformed is
// reported through the boolean return and simply skipped by Aggregate, which
// keeps the surviving worlds in their original order.
package world
