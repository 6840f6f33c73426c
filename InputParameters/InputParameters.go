package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type BenchmarkParameters struct {
	Title   string `yaml:"Title"`
	Nx      int    `yaml:"Nx"` // Local subdomain dimensions, per process
	Ny      int    `yaml:"Ny"`
	Nz      int    `yaml:"Nz"`
	Npx     int    `yaml:"Npx"` // Process grid dimensions
	Npy     int    `yaml:"Npy"`
	Npz     int    `yaml:"Npz"`
	Threads int    `yaml:"Threads"` // Worker threads per process
}

func (bp *BenchmarkParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, bp)
}

func (bp *BenchmarkParameters) Validate() (err error) {
	if bp.Nx < 1 || bp.Ny < 1 || bp.Nz < 1 {
		err = fmt.Errorf("local dimensions [%d,%d,%d] must be positive", bp.Nx, bp.Ny, bp.Nz)
		return
	}
	if bp.Npx < 1 || bp.Npy < 1 || bp.Npz < 1 {
		err = fmt.Errorf("process grid [%d,%d,%d] must be positive", bp.Npx, bp.Npy, bp.Npz)
		return
	}
	if bp.Threads < 1 {
		bp.Threads = 1
	}
	return
}

func (bp *BenchmarkParameters) Size() int { return bp.Npx * bp.Npy * bp.Npz }

func (bp *BenchmarkParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", bp.Title)
	fmt.Printf("[%d,%d,%d]\t\t= Local dimensions\n", bp.Nx, bp.Ny, bp.Nz)
	fmt.Printf("[%d,%d,%d]\t\t= Process grid\n", bp.Npx, bp.Npy, bp.Npz)
	fmt.Printf("[%d,%d,%d]\t\t= Global dimensions\n", bp.Nx*bp.Npx, bp.Ny*bp.Npy, bp.Nz*bp.Npz)
	fmt.Printf("[%d]\t\t\t= Processes\n", bp.Size())
	fmt.Printf("[%d]\t\t\t= Threads per process\n", bp.Threads)
}
