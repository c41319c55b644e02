// Package prng adapts math/rand into the uniform, Gaussian and
// Klein–Nishina sampling primitives the transport engine needs, and
// provides the independent-substream split used when decays are
// processed in parallel (spec.md §5).
package prng
