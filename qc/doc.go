// Package qc reads iLASH match files, drops segments that are too short to
// be informative and reports summary statistics for the rest.
package qc
