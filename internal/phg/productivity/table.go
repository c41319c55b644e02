package productivity

// Cell is a (slice, angle) key into the productivity table.
type Cell struct {
	Slice int
	Angle int
}

// Entry is the expected primary/scatter contribution of one cell, used to
// split a photon into track-as-primary / track-as-scatter branches.
type Entry struct {
	Primary float64
	Scatter float64
}

// Table maps (slice, angle) cells to their productivity entries. It is
// built once per run and read-only thereafter (spec.md §3, §5).
type Table struct {
	entries map[Cell]Entry
}

// NewTable builds an empty table; entries are added via Accumulate during
// the estimation pass, then the table is frozen by the caller before
// tracking begins.
func NewTable() *Table {
	return &Table{entries: make(map[Cell]Entry)}
}

// Accumulate adds a primary/scatter contribution observed at cell during
// the productivity-estimation pass (a dedicated low-fidelity pre-pass
// over a sample of decays, grounded on the same per-cell accumulator-map
// pattern the teacher's background grid uses for per-voxel statistics).
func (t *Table) Accumulate(c Cell, primary, scatter float64) {
	e := t.entries[c]
	e.Primary += primary
	e.Scatter += scatter
	t.entries[c] = e
}

// Lookup returns the productivity entry for c, or the zero Entry if the
// cell was never observed (treated as "this cell contributes nothing",
// the safe default for importance splitting).
func (t *Table) Lookup(c Cell) Entry {
	return t.entries[c]
}

// Set installs an explicit entry, used when loading a precomputed table
// (spec.md §3: "created once per run") from persisted storage instead of
// re-estimating it.
func (t *Table) Set(c Cell, e Entry) {
	t.entries[c] = e
}

// Len returns the number of populated cells.
func (t *Table) Len() int {
	return len(t.entries)
}

// Snapshot returns a copy of all (cell, entry) pairs, used by the sqlite
// store to persist the table across runs.
func (t *Table) Snapshot() map[Cell]Entry {
	out := make(map[Cell]Entry, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}
