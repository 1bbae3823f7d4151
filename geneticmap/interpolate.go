package geneticmap

import (
	"strconv"

	"github.com/carbocation/ibdprep"
)

// Interpolator answers a non-decreasing sequence of position queries against
// one reference map. Its cursor only moves forward, so a decreasing query is
// rejected instead of answered.
type Interpolator struct {
	ref     *Reference
	cursor  int
	last    int64
	started bool
}

func NewInterpolator(ref *Reference) *Interpolator {
	return &Interpolator{ref: ref}
}

// Next returns the genetic distance at position p. An exact reference match
// returns that entry's distance unchanged. Otherwise the distance is
// extrapolated from the two reference entries immediately preceding p.
func (ip *Interpolator) Next(p int64) (float64, error) {
	if ip.started && p < ip.last {
		return 0, &ibdprep.RangeError{Position: p, Msg: "queries must be sorted by position; the previous query was " + strconv.FormatInt(ip.last, 10)}
	}
	ip.started = true
	ip.last = p

	if i, ok := ip.ref.exact(p); ok {
		ip.cursor = i
		return ip.ref.Entries[i].Distance, nil
	}

	i := ip.cursor
	for i < len(ip.ref.Entries) && ip.ref.Entries[i].Position < p {
		i++
	}

	d, err := ip.ref.extrapolate(i, p)
	if err != nil {
		return 0, err
	}
	ip.cursor = i - 1

	return d, nil
}

// Interpolate returns the genetic distance of every query, in order.
func Interpolate(queries []Query, ref *Reference) ([]float64, error) {
	ip := NewInterpolator(ref)

	out := make([]float64, len(queries))
	for k, q := range queries {
		d, err := ip.Next(q.Position)
		if err != nil {
			return nil, err
		}
		out[k] = d
	}

	return out, nil
}
