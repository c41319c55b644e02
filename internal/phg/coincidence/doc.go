// Package coincidence groups a time-sorted stream of detected singles
// into time-window groups and classifies each as a true coincidence, a
// drop, a random, or triples, per spec.md §4.6.
//
// A synthetic random decay takes the first decay's position; that
// location carries no physical meaning for the random pair.
package coincidence
