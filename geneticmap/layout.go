package geneticmap

import (
	"fmt"
	"sort"
	"strings"
)

// Layout locates the fields of a reference genetic map. Columns are 0-based.
type Layout struct {
	ColID       int
	ColPosition int
	ColDistance int
	Comment     rune
	HasHeader   bool
}

func (l Layout) width() int {
	max := l.ColID
	if l.ColPosition > max {
		max = l.ColPosition
	}
	if l.ColDistance > max {
		max = l.ColDistance
	}
	return max + 1
}

// DefaultLayout is the three column (id, position, centiMorgan) map used by
// the IBD workflow.
const DefaultLayout = "SHAPEIT"

var Layouts = map[string]Layout{
	"SHAPEIT": {
		ColID:       0,
		ColPosition: 1,
		ColDistance: 2,
		Comment:     '#',
	},
	// PLINK .map / .bim style: chr, id, cM, bp
	"PLINK": {
		ColID:       1,
		ColPosition: 3,
		ColDistance: 2,
		Comment:     '#',
	},
	// HapMap II genetic_map_*.txt: chr, bp, rate (cM/Mb), cM, with a header
	"HAPMAP": {
		ColID:       0,
		ColPosition: 1,
		ColDistance: 3,
		Comment:     '#',
		HasHeader:   true,
	},
}

func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for m := range Layouts {
		names = append(names, m)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

func LayoutByName(name string) (Layout, error) {
	l, exists := Layouts[strings.ToUpper(name)]
	if !exists {
		return Layout{}, fmt.Errorf("Layout %s is not found. Valid layout names include: %s", name, LayoutNames())
	}

	return l, nil
}
