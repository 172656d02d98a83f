package simulation

import (
	"sync"

	"github.com/notargets/TPKernel/index"
	"github.com/notargets/TPKernel/partitions"
	"gonum.org/v1/gonum/mat"
)

// Colors partitions the elements so that elements of one partition share
// no DOF, with stride DofsPerElement() per axis
func (s *Simulation2D) Colors() *partitions.PartitionLayout {
	return partitions.ColorElements(s.x.Elements(), s.y.Elements(),
		s.x.DofsPerElement(), s.y.DofsPerElement())
}

// AssembleColored computes local(e) for every element and scatters it into
// global. Partitions run one after another; the elements of a partition run
// concurrently, which is safe because their DOF supports are disjoint.
// local is called from several goroutines and must not mutate shared state.
// The result equals a sequential UpdateGlobalRHS loop up to rounding of the
// summation order.
func (s *Simulation2D) AssembleColored(global *mat.Dense, layout *partitions.PartitionLayout,
	local func(e index.Index) *mat.Dense) {
	for _, p := range layout.Partitions {
		var wg sync.WaitGroup
		for _, e := range p.Elements {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.UpdateGlobalRHS(global, local(e), e)
			}()
		}
		wg.Wait()
		Logger().Debug("partition assembled", "partition", p.ID, "elements", p.NumElements)
	}
}
