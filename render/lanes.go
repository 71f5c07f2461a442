package render

// interval is the minimal shape lane packing needs.
type interval struct {
	start, end int
}

// packLanes assigns each interval (iterated in input order) to the
// lowest lane whose rightmost occupied base is left of its start,
// opening a new lane otherwise. Returns per-interval lane numbers and
// the lane count.
func packLanes(items []interval) ([]int, int) {
	lanes := make([]int, len(items))
	var rightmost []int
	for i, item := range items {
		placed := false
		for lane, right := range rightmost {
			if right < item.start {
				lanes[i] = lane
				rightmost[lane] = item.end
				placed = true
				break
			}
		}
		if !placed {
			lanes[i] = len(rightmost)
			rightmost = append(rightmost, item.end)
		}
	}
	return lanes, len(rightmost)
}
