package problem

import (
	"fmt"
	"math"
	"sync"

	"github.com/notargets/gohpcg/comm"
	"github.com/notargets/gohpcg/utils"
)

// ComputeResidual returns the inf-norm difference between v1 and v2 over
// their first n entries, reduced to a single maximum across every rank of c.
// The result is identical to the serial maximum over the concatenation of all
// ranks' vectors: max is associative and commutative, so neither the thread
// partitioning nor the rank reduction order affects it. A rank with n == 0
// contributes 0.0, the reduction identity for absolute differences.
//
// Every rank of c must call ComputeResidual; the max reduction is a
// synchronous collective.
func ComputeResidual(n int, v1, v2 []float64, c comm.Communicator, numThreads int) (residual float64, err error) {
	if n < 0 || n > len(v1) || n > len(v2) {
		err = fmt.Errorf("n = %d out of range for vectors of length %d and %d",
			n, len(v1), len(v2))
		return
	}
	var localResidual float64
	if numThreads <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			if diff := math.Abs(v1[i] - v2[i]); diff > localResidual {
				localResidual = diff
			}
		}
	} else {
		if numThreads > n {
			numThreads = n
		}
		var (
			pm = utils.NewPartitionMap(numThreads, n)
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for t := 0; t < numThreads; t++ {
			wg.Add(1)
			go func(t int) {
				defer wg.Done()
				var (
					iMin, iMax         = pm.GetBucketRange(t)
					threadLocalResidual float64
				)
				for i := iMin; i < iMax; i++ {
					if diff := math.Abs(v1[i] - v2[i]); diff > threadLocalResidual {
						threadLocalResidual = diff
					}
				}
				// One merge per thread, a true max reduction rather than a
				// last write wins assignment
				mu.Lock()
				if threadLocalResidual > localResidual {
					localResidual = threadLocalResidual
				}
				mu.Unlock()
			}(t)
		}
		wg.Wait()
	}
	residual = c.AllReduceMaxFloat64(localResidual)
	return
}
