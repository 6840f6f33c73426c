package geometry

import "fmt"

// Geometry describes the data decomposition of a global 3D grid across an
// npx x npy x npz Cartesian arrangement of processes. Each process owns an
// nx x ny x nz subdomain; the global grid is (nx*npx) x (ny*npy) x (nz*npz).
// A Geometry is immutable for the lifetime of a run.
type Geometry struct {
	Size          int // Total number of participating processes
	Rank          int // This process's identity, used for diagnostic labeling only
	Nx, Ny, Nz    int // Local subdomain dimensions
	Npx, Npy, Npz int // Process grid dimensions
	Ipx, Ipy, Ipz int // This process's coordinate in the process grid
}

// NewGeometry derives the process coordinate (ipx,ipy,ipz) for rank within an
// npx x npy x npz process grid holding nx x ny x nz points per process. The
// factorization of size into the process grid is an input, not computed here.
func NewGeometry(rank, size, nx, ny, nz, npx, npy, npz int) (geom *Geometry, err error) {
	if nx < 1 || ny < 1 || nz < 1 {
		err = fmt.Errorf("local dimensions must be positive, got [%d,%d,%d]", nx, ny, nz)
		return
	}
	if npx < 1 || npy < 1 || npz < 1 {
		err = fmt.Errorf("process grid dimensions must be positive, got [%d,%d,%d]", npx, npy, npz)
		return
	}
	if size != npx*npy*npz {
		err = fmt.Errorf("process grid [%d,%d,%d] does not factor size %d", npx, npy, npz, size)
		return
	}
	if rank < 0 || rank >= size {
		err = fmt.Errorf("rank %d out of range [0,%d)", rank, size)
		return
	}
	// Rank linearization mirrors the grid point linearization: x fastest
	ipz := rank / (npx * npy)
	ipy := (rank - ipz*npx*npy) / npx
	ipx := rank % npx
	geom = &Geometry{
		Size: size,
		Rank: rank,
		Nx:   nx, Ny: ny, Nz: nz,
		Npx: npx, Npy: npy, Npz: npz,
		Ipx: ipx, Ipy: ipy, Ipz: ipz,
	}
	return
}

// Gnx, Gny, Gnz are the global grid extents.
func (geom *Geometry) Gnx() int { return geom.Nx * geom.Npx }
func (geom *Geometry) Gny() int { return geom.Ny * geom.Npy }
func (geom *Geometry) Gnz() int { return geom.Nz * geom.Npz }

// LocalRowCount is the number of grid points owned by this process.
func (geom *Geometry) LocalRowCount() int { return geom.Nx * geom.Ny * geom.Nz }

func (geom *Geometry) String() string {
	return fmt.Sprintf("rank %d of %d at [%d,%d,%d] in [%d,%d,%d] grid, local [%d,%d,%d]",
		geom.Rank, geom.Size, geom.Ipx, geom.Ipy, geom.Ipz,
		geom.Npx, geom.Npy, geom.Npz, geom.Nx, geom.Ny, geom.Nz)
}
