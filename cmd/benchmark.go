package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/notargets/gohpcg/InputParameters"
	"github.com/notargets/gohpcg/comm"
	"github.com/notargets/gohpcg/geometry"
	"github.com/notargets/gohpcg/problem"
)

// BenchmarkReport aggregates the rank 0 view of a benchmark run.
type BenchmarkReport struct {
	Title                 string
	Processes, Threads    int
	TotalNumberOfRows     problem.GlobalInt
	TotalNumberOfNonzeros problem.GlobalInt
	Residual              float64 // Verification residual, 0.0 for a correct generation
	GenerateTime          time.Duration
	HWReport              string // Hardware counter summary, empty unless requested
}

func (rep *BenchmarkReport) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rep.Title)
	fmt.Printf("[%d]\t\t\t= Processes\n", rep.Processes)
	fmt.Printf("[%d]\t\t\t= Threads per process\n", rep.Threads)
	fmt.Printf("[%d]\t\t= Total rows\n", rep.TotalNumberOfRows)
	fmt.Printf("[%d]\t\t= Total nonzeros\n", rep.TotalNumberOfNonzeros)
	fmt.Printf("%8.5e\t\t= Verification residual (must be 0)\n", rep.Residual)
	fmt.Printf("%v\t\t= Generation time\n", rep.GenerateTime)
	if len(rep.HWReport) != 0 {
		fmt.Printf("%s\n", rep.HWReport)
	}
}

// RunBenchmark drives the full collective sequence on npx*npy*npz simulated
// ranks, one goroutine per rank: problem generation, then the inf-norm
// residual between the generated right hand side and its stencil identity
// 27 - (nonzerosInRow - 1). A correct generation yields exactly 0.0 on every
// rank.
func RunBenchmark(bp *InputParameters.BenchmarkParameters, hwCounters bool) (rep *BenchmarkReport, err error) {
	var (
		size  = bp.Size()
		ranks = comm.NewGroup(size)
		As    = make([]*problem.SparseMatrix, size)
		res   = make([]float64, size)
		errs  = make([]error, size)
		wg    sync.WaitGroup
	)
	start := time.Now()
	launch := func() error {
		wg.Add(size)
		for rank := 0; rank < size; rank++ {
			go func(rank int) {
				defer wg.Done()
				geom, gerr := geometry.NewGeometry(rank, size,
					bp.Nx, bp.Ny, bp.Nz, bp.Npx, bp.Npy, bp.Npz)
				if gerr != nil {
					errs[rank] = gerr
					// The group collectives still need this rank's
					// participation to avoid stalling the others
					c := ranks[rank]
					c.AllReduceSumInt64(0)
					c.AllReduceMaxFloat64(0)
					return
				}
				A, b, _, _ := problem.GenerateProblem(geom, ranks[rank],
					problem.GenerateOptions{NumThreads: bp.Threads})
				As[rank] = A
				// Recompute the rhs from the row counts; any mismatch shows
				// up in the global maximum
				n := int(A.LocalNumberOfRows)
				expected := make([]float64, n)
				for r := 0; r < n; r++ {
					expected[r] = 27.0 - float64(A.NonzerosInRow[r]-1)
				}
				res[rank], errs[rank] = problem.ComputeResidual(n, b, expected,
					ranks[rank], bp.Threads)
			}(rank)
		}
		wg.Wait()
		return nil
	}
	var hwReport string
	if hwCounters {
		hwReport, err = measureHardwareCounters(launch)
		if err != nil {
			return
		}
	} else {
		launch()
	}
	elapsed := time.Since(start)
	for rank := 0; rank < size; rank++ {
		if errs[rank] != nil {
			err = fmt.Errorf("rank %d: %w", rank, errs[rank])
			return
		}
	}
	rep = &BenchmarkReport{
		Title:                 bp.Title,
		Processes:             size,
		Threads:               bp.Threads,
		TotalNumberOfRows:     As[0].TotalNumberOfRows,
		TotalNumberOfNonzeros: As[0].TotalNumberOfNonzeros,
		Residual:              res[0],
		GenerateTime:          elapsed,
		HWReport:              hwReport,
	}
	return
}
