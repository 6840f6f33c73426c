package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAssignLocalIndicesAndSpMV(t *testing.T) {
	A, b, _, xexact := singleRankProblem(t, 4, 4, 4, GenerateOptions{NumThreads: 4})
	require.NoError(t, A.AssignLocalIndices())
	// Local indices invert the global ones through the ownership map
	for r := 0; r < int(A.LocalNumberOfRows); r++ {
		for j := 0; j < int(A.NonzerosInRow[r]); j++ {
			assert.Equal(t, A.GlobalToLocalMap[A.MtxIndG[r][j]], A.MtxIndL[r][j])
		}
	}
	// A*xexact reproduces b exactly: the diagonal contributes 27 and each of
	// the nnz-1 off-diagonals subtracts 1
	y, err := A.SpMV(xexact)
	require.NoError(t, err)
	assert.Equal(t, b, y)
}

func TestSpMVAgainstDense(t *testing.T) {
	A, _, _, _ := singleRankProblem(t, 3, 3, 3, GenerateOptions{})
	require.NoError(t, A.AssignLocalIndices())
	var (
		n     = int(A.LocalNumberOfRows)
		dense = mat.NewDense(n, n, nil)
		xv    = make([]float64, n)
	)
	for r := 0; r < n; r++ {
		for j := 0; j < int(A.NonzerosInRow[r]); j++ {
			dense.Set(r, int(A.MtxIndL[r][j]), A.MatrixValues[r][j])
		}
		xv[r] = float64(r%5) - 2.0
	}
	y, err := A.SpMV(xv)
	require.NoError(t, err)
	var want mat.VecDense
	want.MulVec(dense, mat.NewVecDense(n, xv))
	assert.InDeltaSlice(t, want.RawVector().Data, y, 1.e-12)
	// The dense image must also be symmetric, a property of the stencil
	assert.True(t, mat.Equal(dense, dense.T()))
}

func TestSpMVErrors(t *testing.T) {
	A, _, _, xexact := singleRankProblem(t, 3, 3, 3, GenerateOptions{})
	_, err := A.SpMV(xexact) // before AssignLocalIndices
	assert.Error(t, err)
	require.NoError(t, A.AssignLocalIndices())
	_, err = A.SpMV(xexact[:5]) // wrong length
	assert.Error(t, err)
}

func TestAssignLocalIndicesFailsOffRank(t *testing.T) {
	// Under a 2 rank decomposition each rank's stencil references columns
	// owned by the other rank, so the single process symbolic phase must
	// refuse
	As, _ := generateOnGroup(t, 2, 4, 4, 2, 1, 1)
	for _, A := range As {
		assert.Error(t, A.AssignLocalIndices())
	}
}

func TestToCSR(t *testing.T) {
	A, _, _, _ := singleRankProblem(t, 3, 3, 3, GenerateOptions{})
	_, err := A.ToCSR() // before AssignLocalIndices
	assert.Error(t, err)
	require.NoError(t, A.AssignLocalIndices())
	R, err := A.ToCSR()
	require.NoError(t, err)
	r, c := R.Dims()
	assert.Equal(t, int(A.LocalNumberOfRows), r)
	assert.Equal(t, int(A.LocalNumberOfColumns), c)
	assert.Equal(t, int(A.LocalNumberOfNonzeros), R.NNZ())
	for i := 0; i < int(A.LocalNumberOfRows); i++ {
		for j := 0; j < int(A.NonzerosInRow[i]); j++ {
			assert.Equal(t, A.MatrixValues[i][j], R.At(i, int(A.MtxIndL[i][j])))
		}
	}
}
