package problem

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gohpcg/comm"
)

func TestComputeResidualSingleProcess(t *testing.T) {
	var c comm.Communicator = comm.SingleProcess{}
	{ // Identical vectors give exactly 0.0
		v := []float64{1.25, -3.5, 0, 42}
		res, err := ComputeResidual(len(v), v, v, c, 1)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res)
	}
	{
		res, err := ComputeResidual(3, []float64{1, 5, 2}, []float64{1, 2, 2}, c, 1)
		require.NoError(t, err)
		assert.Equal(t, 3.0, res)
	}
	{ // Sign of the difference is irrelevant
		res, err := ComputeResidual(3, []float64{1, 2, 2}, []float64{1, 5, 2}, c, 1)
		require.NoError(t, err)
		assert.Equal(t, 3.0, res)
	}
	{ // Empty range contributes the identity
		res, err := ComputeResidual(0, nil, nil, c, 1)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res)
	}
	{ // n beyond either vector is a caller error
		_, err := ComputeResidual(4, []float64{1, 2, 3}, []float64{1, 2, 3}, c, 1)
		assert.Error(t, err)
		_, err = ComputeResidual(-1, nil, nil, c, 1)
		assert.Error(t, err)
	}
}

func TestComputeResidualThreadedMatchesSerial(t *testing.T) {
	var (
		c = comm.SingleProcess{}
		n = 1000
	)
	v1 := make([]float64, n)
	v2 := make([]float64, n)
	for i := 0; i < n; i++ {
		v1[i] = float64(i * i % 97)
		v2[i] = float64((i*i + 31*i) % 89)
	}
	want, err := ComputeResidual(n, v1, v2, c, 1)
	require.NoError(t, err)
	for _, nt := range []int{2, 3, 8, 33} {
		got, err := ComputeResidual(n, v1, v2, c, nt)
		require.NoError(t, err)
		assert.Equal(t, want, got, "numThreads = %d", nt)
	}
}

func TestComputeResidualDistributed(t *testing.T) {
	{ // Each rank holds a different local maximum; all see the global one
		var (
			size  = 8
			ranks = comm.NewGroup(size)
			got   = make([]float64, size)
			wg    sync.WaitGroup
		)
		wg.Add(size)
		for rank := 0; rank < size; rank++ {
			go func(rank int) {
				defer wg.Done()
				v1 := []float64{0, float64(rank), 0}
				v2 := []float64{0, 0, 0}
				res, err := ComputeResidual(3, v1, v2, ranks[rank], 2)
				assert.NoError(t, err)
				got[rank] = res
			}(rank)
		}
		wg.Wait()
		for rank := 0; rank < size; rank++ {
			assert.Equal(t, 7.0, got[rank])
		}
	}
	{ // A rank with no local rows cannot suppress a maximum found elsewhere
		var (
			ranks = comm.NewGroup(2)
			got   = make([]float64, 2)
			wg    sync.WaitGroup
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			res, err := ComputeResidual(0, nil, nil, ranks[0], 1)
			assert.NoError(t, err)
			got[0] = res
		}()
		go func() {
			defer wg.Done()
			res, err := ComputeResidual(2, []float64{4, 1}, []float64{1.5, 1}, ranks[1], 1)
			assert.NoError(t, err)
			got[1] = res
		}()
		wg.Wait()
		assert.Equal(t, 2.5, got[0])
		assert.Equal(t, 2.5, got[1])
	}
}

func TestComputeResidualAgainstGeneratedProblem(t *testing.T) {
	// xexact vs the zero initial guess: every entry differs by exactly 1
	A, _, x, xexact := singleRankProblem(t, 4, 4, 4, GenerateOptions{NumThreads: 2})
	res, err := ComputeResidual(int(A.LocalNumberOfRows), xexact, x, comm.SingleProcess{}, 4)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res)
}
