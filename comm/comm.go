// Package comm supplies the collective reduction capability shared by all
// ranks of a distributed run. Every collective is a synchronous barrier: each
// participating rank must make the call, and the call returns only once every
// rank has contributed. An absent rank stalls the group; avoiding that is the
// caller's responsibility.
package comm

// Communicator is the minimal collective surface the problem generator and
// the residual reduction depend on.
type Communicator interface {
	Rank() int
	Size() int
	// AllReduceSumInt64 returns the sum of every rank's local value. The
	// accumulation type is 64-bit regardless of the local count type so that
	// summing many ranks' counts cannot silently overflow.
	AllReduceSumInt64(local int64) int64
	// AllReduceMaxFloat64 returns the maximum of every rank's local value.
	AllReduceMaxFloat64(local float64) float64
}

// SingleProcess is the identity Communicator for single-rank runs.
type SingleProcess struct{}

func (SingleProcess) Rank() int { return 0 }
func (SingleProcess) Size() int { return 1 }

func (SingleProcess) AllReduceSumInt64(local int64) int64 { return local }

func (SingleProcess) AllReduceMaxFloat64(local float64) float64 { return local }
