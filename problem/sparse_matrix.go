// Package problem builds the synthetic distributed sparse linear system for
// the conjugate gradient benchmark: a 27-point stencil matrix over a 3D grid
// partitioned across a Cartesian process arrangement, the associated
// right-hand-side / initial-guess / exact-solution vectors, and the inf-norm
// residual collective used to verify a computed solution.
package problem

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/notargets/gohpcg/geometry"
)

// LocalInt indexes rows owned by one process, GlobalInt indexes rows of the
// whole problem. The widths are a module-wide configuration decision: a
// problem too large for them is a fatal misconfiguration, checked up front in
// GenerateProblem rather than allowed to wrap.
type (
	LocalInt  int32
	GlobalInt int64
)

// MaxNonzerosPerRow is the full 27-point stencil: the point itself plus its
// 26 spatial neighbors. Rows on the global domain boundary hold fewer.
const MaxNonzerosPerRow = 27

// SparseMatrix is the locally owned block of the global stencil matrix, with
// dual global/local column indexing. Per-row storage is preallocated at the
// stencil capacity and never resized. After generation the matrix and both
// index maps are immutable.
type SparseMatrix struct {
	Title string
	Geom  *geometry.Geometry

	TotalNumberOfRows     GlobalInt // Across all processes
	TotalNumberOfNonzeros GlobalInt
	LocalNumberOfRows     LocalInt
	LocalNumberOfColumns  LocalInt
	LocalNumberOfNonzeros LocalInt

	NonzerosInRow  []int8        // One count per local row, in [8,27]
	MtxIndG        [][]GlobalInt // Global column indices, row major
	MtxIndL        [][]LocalInt  // Local column indices, -1 until assigned
	MatrixValues   [][]float64   // Aligned slot for slot with the index arrays
	MatrixDiagonal []int8        // Slot of the diagonal entry within each row

	LocalToGlobalMap []GlobalInt            // Local row -> global row
	GlobalToLocalMap map[GlobalInt]LocalInt // Global row -> local row, owned rows only

	indicesAssigned bool // MtxIndL populated by AssignLocalIndices
}

// AssignLocalIndices runs the symbolic phase translating every global column
// index into a local one via the global-to-local map. It only succeeds when
// every referenced column is owned by this process, i.e. on a single-process
// geometry; multi-process column exchange is a separate setup phase.
func (A *SparseMatrix) AssignLocalIndices() (err error) {
	for i := LocalInt(0); i < A.LocalNumberOfRows; i++ {
		for j := int8(0); j < A.NonzerosInRow[i]; j++ {
			curIndex := A.MtxIndG[i][j]
			local, ok := A.GlobalToLocalMap[curIndex]
			if !ok {
				err = fmt.Errorf("global column %d of row %d is not owned by rank %d",
					curIndex, i, A.Geom.Rank)
				return
			}
			A.MtxIndL[i][j] = local
		}
	}
	A.indicesAssigned = true
	return
}

// SpMV computes y = A*x over the local index space. AssignLocalIndices must
// have succeeded first.
func (A *SparseMatrix) SpMV(x []float64) (y []float64, err error) {
	if !A.indicesAssigned {
		err = fmt.Errorf("local column indices not assigned, call AssignLocalIndices first")
		return
	}
	if len(x) != int(A.LocalNumberOfColumns) {
		err = fmt.Errorf("x has length %d, want %d", len(x), A.LocalNumberOfColumns)
		return
	}
	y = make([]float64, A.LocalNumberOfRows)
	for i := LocalInt(0); i < A.LocalNumberOfRows; i++ {
		var sum float64
		cur := A.NonzerosInRow[i]
		vals := A.MatrixValues[i]
		inds := A.MtxIndL[i]
		for j := int8(0); j < cur; j++ {
			sum += vals[j] * x[inds[j]]
		}
		y[i] = sum
	}
	return
}

// DiagonalValue returns the value stored in row i's diagonal slot.
func (A *SparseMatrix) DiagonalValue(i LocalInt) float64 {
	return A.MatrixValues[i][A.MatrixDiagonal[i]]
}

// ToCSR exports the local block as a compressed sparse row matrix in local
// column indexing. AssignLocalIndices must have succeeded first.
func (A *SparseMatrix) ToCSR() (R *sparse.CSR, err error) {
	if !A.indicesAssigned {
		err = fmt.Errorf("local column indices not assigned, call AssignLocalIndices first")
		return
	}
	dok := sparse.NewDOK(int(A.LocalNumberOfRows), int(A.LocalNumberOfColumns))
	for i := LocalInt(0); i < A.LocalNumberOfRows; i++ {
		for j := int8(0); j < A.NonzerosInRow[i]; j++ {
			dok.Set(int(i), int(A.MtxIndL[i][j]), A.MatrixValues[i][j])
		}
	}
	R = dok.ToCSR()
	return
}
