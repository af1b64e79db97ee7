// Package storage writes listing snapshots to disk.
//
// The storage package serializes a listing.Snapshot as indented UTF-8 JSON and
// overwrites the destination file on every run. Nothing is read back between runs.
package storage
