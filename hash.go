package fogrid

// hash32 is an integer avalanche hash (lowbias32). Same input, same output,
// on every platform.
func hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Rand01 returns a deterministic pseudo-random value in [0, 1) keyed by a
// cell and a salt. It has no hidden state, so the fog frontier is a pure
// function of occupancy.
func Rand01(row, col int, salt uint32) float64 {
	seed := uint32(int64(row)*73856093) ^ uint32(int64(col)*19349663) ^ salt
	return float64(hash32(seed)%10000) / 10000
}
