package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGeometry(t *testing.T) {
	{ // Coordinate derivation covers every rank of a 2x3x4 grid exactly once
		var (
			npx, npy, npz = 2, 3, 4
			size          = npx * npy * npz
			seen          = make(map[[3]int]bool)
		)
		for rank := 0; rank < size; rank++ {
			geom, err := NewGeometry(rank, size, 4, 4, 4, npx, npy, npz)
			assert.NoError(t, err)
			assert.Equal(t, rank, geom.Ipz*npx*npy+geom.Ipy*npx+geom.Ipx)
			seen[[3]int{geom.Ipx, geom.Ipy, geom.Ipz}] = true
		}
		assert.Equal(t, size, len(seen))
	}
	{ // Global extents and local row count
		geom, err := NewGeometry(0, 8, 3, 4, 5, 2, 2, 2)
		assert.NoError(t, err)
		assert.Equal(t, 6, geom.Gnx())
		assert.Equal(t, 8, geom.Gny())
		assert.Equal(t, 10, geom.Gnz())
		assert.Equal(t, 60, geom.LocalRowCount())
	}
	{ // Invalid inputs
		_, err := NewGeometry(0, 4, 2, 2, 2, 2, 2, 2) // size != npx*npy*npz
		assert.Error(t, err)
		_, err = NewGeometry(8, 8, 2, 2, 2, 2, 2, 2) // rank out of range
		assert.Error(t, err)
		_, err = NewGeometry(0, 1, 0, 2, 2, 1, 1, 1) // zero local dim
		assert.Error(t, err)
		_, err = NewGeometry(0, 1, 2, 2, 2, 1, 0, 1) // zero process dim
		assert.Error(t, err)
	}
}
