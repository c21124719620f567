package rng

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int

	// Int63 returns a random 63-bit integer, suitable as a deck seed
	Int63() int64
}

var _ Generator = Crypto{}
