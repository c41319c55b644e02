// Package history reads and writes the list-mode history file format:
// a 32768-byte fixed header followed by a sequence of tagged decay and
// photon records (spec.md §6). It is the on-disk boundary between the
// transport engine, the time-sort engine, and the coincidence engine —
// none of those packages know the wire layout directly, they only
// produce or consume Decay/Photon values through Reader/Writer.
package history
