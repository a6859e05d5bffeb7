// Package checkpoint implements the rotating on-disk snapshot store used by
// sessions to survive process restarts.
//
// A store is configured with a path prefix P. Variables-files are named
// P.v<index> and memo-files P.m<index>, where <index> is a positive decimal
// integer that increases monotonically; gaps are permitted after pruning.
// Writes go to a temporary name in the same directory and are renamed into
// place only after a successful flush, so a crash mid-write never leaves a
// file that is both present and corrupt. Retention is applied independently
// per file kind: once a kind exceeds its maximum count the lowest-indexed
// files are deleted first, always after the new file is safely in place.
//
// The directory behind a path prefix is owned by exactly one session at a
// time by convention; no file locking is implemented.
package checkpoint
