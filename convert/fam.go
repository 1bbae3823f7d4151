package convert

import (
	"bufio"
	"strings"

	"github.com/carbocation/ibdprep"
)

// FamID identifies one individual of a .fam file.
type FamID struct {
	FamilyID     string
	IndividualID string
}

// ReadFam returns the (family id, individual id) pairs of a .fam file in file
// order. Only the first two columns are required.
func ReadFam(path string) ([]FamID, error) {
	rc, err := ibdprep.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var ids []FamID
	scanner := bufio.NewScanner(rc)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, ibdprep.NewSchemaError(path, line, "expected family and individual IDs, found %d column(s)", len(fields))
		}

		ids = append(ids, FamID{FamilyID: fields[0], IndividualID: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, &ibdprep.IOError{Op: "read", Path: path, Err: err}
	}

	return ids, nil
}
