package build

import "github.com/transitmodel/gtfs2gmns/model"

type linkEndpoints struct {
	from, to int
}

// Dedup implements spec.md §4.7: concatenate all links, then drop every
// duplicate (from_node_id, to_node_id) pair except its last occurrence
// — the same semantics as pandas' drop_duplicates(keep='last'), which
// keeps each survivor at its original position, so transfer reciprocals
// emitted after an earlier, now-stale pair naturally win.
func Dedup(links []model.Link) []model.Link {
	lastIndex := make(map[linkEndpoints]int, len(links))
	for i, l := range links {
		lastIndex[linkEndpoints{l.FromNodeID, l.ToNodeID}] = i
	}

	keep := make([]bool, len(links))
	for _, idx := range lastIndex {
		keep[idx] = true
	}

	out := make([]model.Link, 0, len(lastIndex))
	for i, l := range links {
		if keep[i] {
			out = append(out, l)
		}
	}
	return out
}
