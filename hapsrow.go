package ibdprep

// Map the leading metadata columns of a .haps file to their positions. Every
// column from HapsMetadataColumns onward holds one haplotype's allele code.
const (
	HapsChromosome int = iota
	HapsVariantID
	HapsPosition
	HapsAllele1
	HapsAllele2
	HapsMetadataColumns
)

type HapsRow struct {
	Chromosome string
	VariantID  string // E.g., RSID
	Position   int64
	Allele1    string // Can contain > 1 character
	Allele2    string // Can contain > 1 character

	// Raw allele codes, two adjacent columns per diploid individual. Left nil
	// by ReadSite.
	Haplotypes []string
}

// HapsShape holds the dimensions learned by a counting pass over a .haps file.
type HapsShape struct {
	Variants         int
	HaplotypeColumns int
	FieldsPerLine    int
}

func (s HapsShape) Individuals() int {
	return s.HaplotypeColumns / 2
}
