package partitions

import (
	"fmt"
	"testing"

	"github.com/notargets/TPKernel/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorElements(t *testing.T) {
	cases := []struct{ nx, ny, sx, sy int }{
		{1, 1, 1, 1},
		{4, 3, 2, 2},
		{5, 7, 3, 4},
		{2, 2, 4, 4},
		{6, 1, 2, 3},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%dx%d/%dx%d", tc.nx, tc.ny, tc.sx, tc.sy), func(t *testing.T) {
			pl := ColorElements(tc.nx, tc.ny, tc.sx, tc.sy)
			require.NoError(t, pl.ValidateLayout())
			assert.Equal(t, tc.nx*tc.ny, pl.TotalElements)
			assert.Equal(t, min(tc.sx, tc.nx)*min(tc.sy, tc.ny), pl.NumPartitions)
			for id, p := range pl.Partitions {
				assert.Equal(t, id, p.ID)
				assert.NotZero(t, p.NumElements)
			}
		})
	}
}

func TestGetPartition(t *testing.T) {
	pl := ColorElements(4, 4, 2, 2)
	assert.Equal(t, 0, pl.GetPartition(index.Index{X: 0, Y: 0}))
	assert.Equal(t, 0, pl.GetPartition(index.Index{X: 2, Y: 2}))
	assert.Equal(t, 3, pl.GetPartition(index.Index{X: 3, Y: 1}))
	assert.Equal(t, -1, pl.GetPartition(index.Index{X: 4, Y: 0}))
	assert.Equal(t, -1, pl.GetPartition(index.Index{X: 0, Y: -1}))
}

func TestValidateLayoutDetectsConflicts(t *testing.T) {
	pl := ColorElements(3, 3, 2, 2)
	// Move a neighbour of element (0,0) into its partition
	moved := index.Index{X: 1, Y: 0}
	from := pl.GetPartition(moved)
	p := &pl.Partitions[from]
	for i, e := range p.Elements {
		if e == moved {
			p.Elements = append(p.Elements[:i], p.Elements[i+1:]...)
			p.NumElements--
			break
		}
	}
	pl.Partitions[0].Elements = append(pl.Partitions[0].Elements, moved)
	pl.Partitions[0].NumElements++
	pl.EToP[moved.X*pl.Ny+moved.Y] = 0
	assert.Error(t, pl.ValidateLayout())

	pl = ColorElements(3, 3, 2, 2)
	pl.Partitions[1].NumElements++
	assert.Error(t, pl.ValidateLayout())
}

func TestColorElementsPanics(t *testing.T) {
	assert.Panics(t, func() { ColorElements(0, 3, 1, 1) })
	assert.Panics(t, func() { ColorElements(3, 3, 0, 1) })
}
