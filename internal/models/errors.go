package models

import "errors"

// ErrEnrichmentAlreadySet is returned when a write-once enrichment cell
// (Profile.DetectedCMS) is written a second time with a conflicting value.
// Per spec.md §9's redesign notes this is an ArchitectureViolation. It is a
// plain sentinel: the scanerrors package does not wrap it, and callers match
// it with errors.Is.
var ErrEnrichmentAlreadySet = errors.New("models: write-once field already set to a different value")
