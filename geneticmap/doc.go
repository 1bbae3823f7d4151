// Package geneticmap assigns genetic distances (centiMorgans) to variants by
// exact lookup in, or linear extrapolation from, a position-sorted reference
// map.
package geneticmap
