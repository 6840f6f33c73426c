package problem

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/notargets/gohpcg/comm"
	"github.com/notargets/gohpcg/geometry"
	"github.com/notargets/gohpcg/utils"
)

// GenerateOptions controls the intra-process execution of GenerateProblem.
type GenerateOptions struct {
	NumThreads int       // Worker goroutines for the row loop, <=1 runs serial
	DebugTrace io.Writer // Per-row dual-index trace keyed by rank, nil disables
}

// GenerateProblem builds this process's block of the 27-point stencil system:
// the local sparse matrix with both index maps populated, the right hand side
// b, the zero initial guess x, and the exact solution xexact (all ones, so
// that A*xexact == b row for row).
//
// Size preconditions are fatal: a local row count that does not fit LocalInt,
// or a total row or nonzero count that does not fit GlobalInt, means the index
// types were configured too narrow for the requested problem and no usable
// partial result exists. Those violations panic with a diagnostic naming the
// failed invariant.
//
// Every rank of c must call GenerateProblem; the nonzero-total reduction is a
// synchronous collective.
func GenerateProblem(geom *geometry.Geometry, c comm.Communicator, opts GenerateOptions) (A *SparseMatrix, b, x, xexact []float64) {
	var (
		nx, ny, nz    = geom.Nx, geom.Ny, geom.Nz
		ipx, ipy, ipz = geom.Ipx, geom.Ipy, geom.Ipz
		gnx, gny, gnz = geom.Gnx(), geom.Gny(), geom.Gnz()
	)
	localNumberOfRows := int64(nx) * int64(ny) * int64(nz)
	// If this check fails it most likely means LocalInt must be widened
	if localNumberOfRows <= 0 || localNumberOfRows > math.MaxInt32 {
		panic(fmt.Sprintf("local row count %d x %d x %d = %d is not representable as a LocalInt",
			nx, ny, nz, localNumberOfRows))
	}
	if localNumberOfRows > math.MaxInt64/int64(geom.Size) {
		panic(fmt.Sprintf("total row count %d x %d processes is not representable as a GlobalInt",
			localNumberOfRows, geom.Size))
	}
	totalNumberOfRows := localNumberOfRows * int64(geom.Size)

	nRows := int(localNumberOfRows)
	A = &SparseMatrix{
		Geom:             geom,
		NonzerosInRow:    make([]int8, nRows),
		MtxIndG:          make([][]GlobalInt, nRows),
		MtxIndL:          make([][]LocalInt, nRows),
		MatrixValues:     make([][]float64, nRows),
		MatrixDiagonal:   make([]int8, nRows),
		LocalToGlobalMap: make([]GlobalInt, nRows),
		GlobalToLocalMap: make(map[GlobalInt]LocalInt, nRows),
	}
	for i := 0; i < nRows; i++ {
		A.MtxIndG[i] = make([]GlobalInt, MaxNonzerosPerRow)
		A.MtxIndL[i] = make([]LocalInt, MaxNonzerosPerRow)
		A.MatrixValues[i] = make([]float64, MaxNonzerosPerRow)
		for j := 0; j < MaxNonzerosPerRow; j++ {
			A.MtxIndL[i][j] = -1
		}
	}
	x = make([]float64, nRows)
	b = make([]float64, nRows)
	xexact = make([]float64, nRows)

	nThreads := opts.NumThreads
	if nThreads < 1 {
		nThreads = 1
	}
	if nThreads > nRows {
		nThreads = nRows
	}
	var (
		pm                    = utils.NewPartitionMap(nThreads, nRows)
		mu                    sync.Mutex // Guards the global-to-local map, the nonzero total and the trace
		wg                    sync.WaitGroup
		localNumberOfNonzeros int64
	)
	for n := 0; n < nThreads; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			var (
				iMin, iMax = pm.GetBucketRange(n)
				myNonzeros int64
			)
			for r := iMin; r < iMax; r++ {
				var (
					ix  = r % nx
					iy  = (r / nx) % ny
					iz  = r / (nx * ny)
					gix = ipx*nx + ix
					giy = ipy*ny + iy
					giz = ipz*nz + iz
				)
				currentLocalRow := LocalInt(r)
				currentGlobalRow := GlobalInt(giz)*GlobalInt(gnx)*GlobalInt(gny) +
					GlobalInt(giy)*GlobalInt(gnx) + GlobalInt(gix)
				mu.Lock() // Map writes are not safe under concurrent writers
				A.GlobalToLocalMap[currentGlobalRow] = currentLocalRow
				mu.Unlock()
				A.LocalToGlobalMap[r] = currentGlobalRow
				if opts.DebugTrace != nil {
					mu.Lock()
					fmt.Fprintf(opts.DebugTrace, " rank, globalRow, localRow = %d %d %d\n",
						geom.Rank, currentGlobalRow, currentLocalRow)
					mu.Unlock()
				}
				var numberOfNonzerosInRow int8
				// Clipped stencil: a neighbor is kept only if its global
				// coordinate is inside the domain in all three axes
				for sz := -1; sz <= 1; sz++ {
					if giz+sz > -1 && giz+sz < gnz {
						for sy := -1; sy <= 1; sy++ {
							if giy+sy > -1 && giy+sy < gny {
								for sx := -1; sx <= 1; sx++ {
									if gix+sx > -1 && gix+sx < gnx {
										curcol := currentGlobalRow +
											GlobalInt(sz*gnx*gny+sy*gnx+sx)
										slot := numberOfNonzerosInRow
										if curcol == currentGlobalRow {
											A.MatrixDiagonal[r] = slot
											A.MatrixValues[r][slot] = 27.0
										} else {
											A.MatrixValues[r][slot] = -1.0
										}
										A.MtxIndG[r][slot] = curcol
										numberOfNonzerosInRow++
									}
								}
							}
						}
					}
				}
				A.NonzerosInRow[r] = numberOfNonzerosInRow
				myNonzeros += int64(numberOfNonzerosInRow)
				x[r] = 0.0
				b[r] = 27.0 - float64(numberOfNonzerosInRow-1)
				xexact[r] = 1.0
			}
			mu.Lock()
			localNumberOfNonzeros += myNonzeros
			mu.Unlock()
		}(n)
	}
	wg.Wait()

	if localNumberOfNonzeros > math.MaxInt32 {
		panic(fmt.Sprintf("local nonzero count %d is not representable as a LocalInt",
			localNumberOfNonzeros))
	}
	// Sum the nonzero totals across all ranks in 64 bits. This is usually the
	// first invariant to fail as the problem size grows.
	totalNumberOfNonzeros := c.AllReduceSumInt64(localNumberOfNonzeros)
	if totalNumberOfNonzeros <= 0 {
		panic(fmt.Sprintf("global nonzero count %d is not representable as a GlobalInt",
			totalNumberOfNonzeros))
	}

	A.TotalNumberOfRows = GlobalInt(totalNumberOfRows)
	A.TotalNumberOfNonzeros = GlobalInt(totalNumberOfNonzeros)
	A.LocalNumberOfRows = LocalInt(nRows)
	A.LocalNumberOfColumns = LocalInt(nRows)
	A.LocalNumberOfNonzeros = LocalInt(localNumberOfNonzeros)
	return
}
