// Package binner accumulates detected events into dimension-ordered
// histograms (sinograms for PET, projection images for SPECT) and
// optionally renders them as PNG plots for inspection. Binning layout
// itself (how a detected photon maps to a bin index per dimension) is
// an external collaborator's contract, not this package's concern —
// binner only owns accumulation, export, and summary statistics.
package binner
