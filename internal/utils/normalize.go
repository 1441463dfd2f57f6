package utils

// CreateRankList creates a slice of ranks based on position.
// The rank starts at 1 for the first item and increments for subsequent items,
// saturating at the largest uint16.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range count {
		ranks[i] = uint16(min(i+1, 65535))
	}
	return ranks
}
