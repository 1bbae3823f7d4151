/*
Package convert turns SHAPEIT-style phased output (.haps and .sample files)
into the PLINK pedigree inputs (.fam and .ped) expected by IBD detectors.

.haps files routinely carry millions of variants, so conversion is done in
two passes: a counting pass sizes the haplotype matrix and validates the
file's shape, and only then is the matrix allocated and filled.
*/
package convert
