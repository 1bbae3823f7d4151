package convert

import "fmt"

// Pedigree allele codes. A .haps file codes the reference allele as 0 and the
// alternate allele as 1; a .ped file expects 2 and 1 respectively.
const (
	PedAlternate uint8 = 1
	PedReference uint8 = 2
)

// RecodeAllele maps a .haps allele code to its .ped allele code. ok is false
// for anything but "0" or "1".
func RecodeAllele(token string) (code uint8, ok bool) {
	switch token {
	case "0":
		return PedReference, true
	case "1":
		return PedAlternate, true
	}
	return 0, false
}

// HaplotypeMatrix holds the recoded allele of every (variant, haplotype
// column) cell in one row-major slice. It is sized once, from a counting pass,
// and never grows.
type HaplotypeMatrix struct {
	Variants int
	Columns  int
	cells    []uint8
}

func NewHaplotypeMatrix(variants, columns int) (*HaplotypeMatrix, error) {
	if variants < 0 || columns < 0 {
		return nil, fmt.Errorf("invalid matrix dimensions %d x %d", variants, columns)
	}

	return &HaplotypeMatrix{
		Variants: variants,
		Columns:  columns,
		cells:    make([]uint8, variants*columns),
	}, nil
}

func (m *HaplotypeMatrix) At(variant, column int) uint8 {
	return m.cells[variant*m.Columns+column]
}

func (m *HaplotypeMatrix) Set(variant, column int, value uint8) {
	m.cells[variant*m.Columns+column] = value
}

// Row exposes the cells of one variant without copying.
func (m *HaplotypeMatrix) Row(variant int) []uint8 {
	return m.cells[variant*m.Columns : (variant+1)*m.Columns]
}
