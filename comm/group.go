package comm

// GroupComm is one rank's handle on an in-process group of communicating
// goroutines. Collectives are gather-reduce-broadcast through channels: rank 0
// drains one contribution from every other rank, reduces, and sends the result
// back on each rank's private channel. Each rank therefore blocks until the
// whole group has contributed, which gives the synchronous barrier semantics
// of the Communicator contract.
type GroupComm struct {
	rank int
	g    *group
}

type group struct {
	size   int
	sumIn  chan int64
	sumOut []chan int64
	maxIn  chan float64
	maxOut []chan float64
}

// NewGroup creates the n rank handles of a new communication group. Handle i
// is for rank i; each handle must be used by exactly one goroutine.
func NewGroup(n int) (ranks []*GroupComm) {
	if n < 1 {
		panic("group size must be at least 1")
	}
	g := &group{
		size:   n,
		sumIn:  make(chan int64, n),
		sumOut: make([]chan int64, n),
		maxIn:  make(chan float64, n),
		maxOut: make([]chan float64, n),
	}
	for i := 0; i < n; i++ {
		g.sumOut[i] = make(chan int64, 1)
		g.maxOut[i] = make(chan float64, 1)
	}
	ranks = make([]*GroupComm, n)
	for i := 0; i < n; i++ {
		ranks[i] = &GroupComm{rank: i, g: g}
	}
	return
}

func (c *GroupComm) Rank() int { return c.rank }
func (c *GroupComm) Size() int { return c.g.size }

func (c *GroupComm) AllReduceSumInt64(local int64) int64 {
	return allReduce(c, c.g.sumIn, c.g.sumOut, local,
		func(a, b int64) int64 { return a + b })
}

func (c *GroupComm) AllReduceMaxFloat64(local float64) float64 {
	return allReduce(c, c.g.maxIn, c.g.maxOut, local,
		func(a, b float64) float64 {
			if b > a {
				return b
			}
			return a
		})
}

// allReduce runs one gather-reduce-broadcast round. The reduction op must be
// associative and commutative; contributions are combined in arrival order.
func allReduce[T any](c *GroupComm, in chan T, out []chan T, local T, op func(T, T) T) T {
	if c.rank == 0 {
		acc := local
		for i := 1; i < c.g.size; i++ {
			acc = op(acc, <-in)
		}
		for i := 1; i < c.g.size; i++ {
			out[i] <- acc
		}
		return acc
	}
	in <- local
	return <-out[c.rank]
}
