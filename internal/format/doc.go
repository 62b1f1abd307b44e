// Package format turns an ordered sector world list into output artifacts.
//
// Each output format is an Emitter; a Registry maps the closed Format enum to
// its Emitter so the sector builder dispatches without a switch. Emitters never
// reorder worlds: module record keys are derived from list position, so the
// same input always yields byte-identical artifacts.
package format
