// Package material holds the per-material attenuation, scatter and
// positron-range tables the object and collimator trackers consult at
// each interaction. Material 0 is the conventional void/gap.
package material
