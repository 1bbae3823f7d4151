package convert

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/carbocation/ibdprep"
	"github.com/carbocation/pfx"
)

// Fixed pedigree columns written after the family and individual IDs: father,
// mother, sex and phenotype, all unknown.
const pedUnknownParentsSexPhenotype = " 0 0 0 -9"

// ConvertHaplotypesToPedigree writes one .ped line per individual of famFile,
// pairing adjacent haplotype columns of hapsFile. Shape problems, including a
// disagreement between the .fam and the number of haplotype columns, are
// reported before the matrix is allocated or pedFile is created.
func ConvertHaplotypesToPedigree(hapsFile, famFile, pedFile string) error {
	shape, err := ibdprep.CountHaps(hapsFile)
	if err != nil {
		return err
	}

	ids, err := ReadFam(famFile)
	if err != nil {
		return err
	}

	if len(ids) != shape.Individuals() {
		return ibdprep.NewSchemaError(famFile, 0, "%d individuals listed, but %s has %d haplotype columns (%d individuals)", len(ids), hapsFile, shape.HaplotypeColumns, shape.Individuals())
	}

	m, err := LoadHaplotypes(hapsFile, shape)
	if err != nil {
		return err
	}

	return WritePedigree(pedFile, ids, m)
}

// LoadHaplotypes is the second pass: it fills a matrix of the given shape with
// recoded alleles.
func LoadHaplotypes(hapsFile string, shape ibdprep.HapsShape) (*HaplotypeMatrix, error) {
	m, err := NewHaplotypeMatrix(shape.Variants, shape.HaplotypeColumns)
	if err != nil {
		return nil, pfx.Err(err)
	}

	haps, err := ibdprep.OpenHAPS(hapsFile)
	if err != nil {
		return nil, err
	}
	defer haps.Close()

	variant := 0
	for row := haps.Read(); row != nil; row = haps.Read() {
		if variant >= m.Variants {
			return nil, ibdprep.NewSchemaError(hapsFile, haps.Line(), "more variants than the %d counted; did the file change?", m.Variants)
		}
		if len(row.Haplotypes) != m.Columns {
			return nil, ibdprep.NewSchemaError(hapsFile, haps.Line(), "expected %d haplotype columns, found %d", m.Columns, len(row.Haplotypes))
		}

		cells := m.Row(variant)
		for j, token := range row.Haplotypes {
			code, ok := RecodeAllele(token)
			if !ok {
				return nil, ibdprep.NewSchemaError(hapsFile, haps.Line(), "haplotype column %d holds %q; expected 0 or 1", j+1, token)
			}
			cells[j] = code
		}
		variant++
	}
	if err := haps.Err(); err != nil {
		return nil, err
	}

	if variant != m.Variants {
		return nil, ibdprep.NewSchemaError(hapsFile, 0, "read %d variants, but %d were counted; did the file change?", variant, m.Variants)
	}

	return m, nil
}

// WritePedigree writes the individuals of m to pedFile. The file is written
// under a temporary name in the same directory and renamed into place, so a
// failure never leaves a truncated pedigree behind.
func WritePedigree(pedFile string, ids []FamID, m *HaplotypeMatrix) error {
	if 2*len(ids) != m.Columns {
		return ibdprep.NewSchemaError(pedFile, 0, "%d individuals cannot be paired with %d haplotype columns", len(ids), m.Columns)
	}

	tmp, err := os.CreateTemp(filepath.Dir(pedFile), "."+filepath.Base(pedFile)+".*")
	if err != nil {
		return &ibdprep.IOError{Op: "create", Path: pedFile, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &ibdprep.IOError{Op: "chmod", Path: pedFile, Err: err}
	}
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriterSize(tmp, 1<<20)
	pair := []byte{' ', 0, ' ', 0}
	for i, id := range ids {
		w.WriteString(id.FamilyID)
		w.WriteByte(' ')
		w.WriteString(id.IndividualID)
		w.WriteString(pedUnknownParentsSexPhenotype)

		for variant := 0; variant < m.Variants; variant++ {
			pair[1] = '0' + m.At(variant, 2*i)
			pair[3] = '0' + m.At(variant, 2*i+1)
			w.Write(pair)
		}

		if err := w.WriteByte('\n'); err != nil {
			return &ibdprep.IOError{Op: "write", Path: pedFile, Err: err}
		}
	}

	if err := w.Flush(); err != nil {
		return &ibdprep.IOError{Op: "write", Path: pedFile, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &ibdprep.IOError{Op: "close", Path: pedFile, Err: err}
	}
	if err := os.Rename(tmpName, pedFile); err != nil {
		return &ibdprep.IOError{Op: "rename", Path: pedFile, Err: err}
	}
	committed = true

	return nil
}
