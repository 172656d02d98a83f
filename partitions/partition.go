package partitions

import (
	"fmt"

	"github.com/notargets/TPKernel/index"
)

// Partition is a set of elements whose DOF supports are pairwise disjoint,
// so their local contributions can be scattered into one global buffer
// concurrently without synchronization.
type Partition struct {
	// Unique identifier for this partition, also its position in the
	// sequential schedule
	ID int

	// Element membership
	Elements    []index.Index
	NumElements int
}

// PartitionLayout covers an nx × ny element grid with partitions
type PartitionLayout struct {
	// All partitions of the grid, processed one after another
	Partitions []Partition

	// Global sizing information
	Nx, Ny        int // Elements per axis
	Sx, Sy        int // Element index stride inside a partition per axis
	TotalElements int
	NumPartitions int

	// Element to partition mapping, element (i,j) is EToP[i*Ny+j]
	EToP []int
}

// ColorElements partitions an nx × ny element grid so that two elements of
// one partition are at least sx apart along x or sy apart along y. For a
// basis with DofsPerElement() = P+1 on an axis, stride P+1 guarantees that
// no DOF is shared inside a partition.
func ColorElements(nx, ny, sx, sy int) *PartitionLayout {
	if nx < 1 || ny < 1 || sx < 1 || sy < 1 {
		panic(fmt.Sprintf("partitions: invalid grid %d×%d with strides %d×%d", nx, ny, sx, sy))
	}
	// Strides beyond the grid size only produce empty partitions
	sx, sy = min(sx, nx), min(sy, ny)

	pl := &PartitionLayout{
		Nx:            nx,
		Ny:            ny,
		Sx:            sx,
		Sy:            sy,
		TotalElements: nx * ny,
		NumPartitions: sx * sy,
		Partitions:    make([]Partition, sx*sy),
		EToP:          make([]int, nx*ny),
	}
	for id := range pl.Partitions {
		pl.Partitions[id].ID = id
	}
	for e := range index.ProductRange(index.NewRange(0, nx), index.NewRange(0, ny)) {
		id := (e.X%sx)*sy + e.Y%sy
		p := &pl.Partitions[id]
		p.Elements = append(p.Elements, e)
		p.NumElements++
		pl.EToP[e.X*ny+e.Y] = id
	}
	return pl
}

// GetPartition returns the partition containing element e, -1 outside the grid
func (pl *PartitionLayout) GetPartition(e index.Index) int {
	if e.X < 0 || e.X >= pl.Nx || e.Y < 0 || e.Y >= pl.Ny {
		return -1
	}
	return pl.EToP[e.X*pl.Ny+e.Y]
}

// ValidateLayout checks that every element belongs to exactly one partition
// and that no two elements of a partition are closer than the strides.
func (pl *PartitionLayout) ValidateLayout() error {
	if len(pl.Partitions) != pl.NumPartitions {
		return fmt.Errorf("layout has %d partitions, NumPartitions is %d",
			len(pl.Partitions), pl.NumPartitions)
	}
	seen := make([]bool, pl.Nx*pl.Ny)
	total := 0
	for _, p := range pl.Partitions {
		if p.NumElements != len(p.Elements) {
			return fmt.Errorf("partition %d: NumElements %d != %d elements",
				p.ID, p.NumElements, len(p.Elements))
		}
		for i, e := range p.Elements {
			k := e.X*pl.Ny + e.Y
			if pl.GetPartition(e) != p.ID {
				return fmt.Errorf("partition %d: element %v mapped to partition %d",
					p.ID, e, pl.GetPartition(e))
			}
			if seen[k] {
				return fmt.Errorf("partition %d: element %v listed twice", p.ID, e)
			}
			seen[k] = true
			for _, o := range p.Elements[i+1:] {
				if abs(e.X-o.X) < pl.Sx && abs(e.Y-o.Y) < pl.Sy {
					return fmt.Errorf("partition %d: elements %v and %v share DOFs", p.ID, e, o)
				}
			}
		}
		total += p.NumElements
	}
	if total != pl.TotalElements {
		return fmt.Errorf("layout covers %d of %d elements", total, pl.TotalElements)
	}
	return nil
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
