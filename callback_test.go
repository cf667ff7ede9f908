package sfcp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeCoverPool(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.99, 0.90, 0.80),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0}, Bandwidth: 1.0, Availability: 0.95}},
	}, SFCConfig{Cuts: ArrayStringFlags{CUT_NODE_COVER}})
	cb := model.Callback

	// only node 1 raises the replica count over its better-ranked predecessor
	require.Len(t, cb.cutPool, 1)
	cut := cb.cutPool[0]
	assert.InDelta(t, 2.0, cut.RHS, 1e-9)
	require.Len(t, cut.Ind, 3)
	assert.Equal(t, int32(model.XIndex(0, 0, 0)), cut.Ind[0])
	// the better-ranked node counts double, the rest count once
	assert.InDelta(t, 2.0, cut.Val[0], 1e-9)
	assert.InDelta(t, 1.0, cut.Val[1], 1e-9)
	assert.InDelta(t, 1.0, cut.Val[2], 1e-9)
}

func TestVnfLowerBoundPool(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.95, 0.95),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0, 0}, Bandwidth: 1.0, Availability: 0.95}},
	}, SFCConfig{Cuts: ArrayStringFlags{CUT_VNF_LB}})
	cb := model.Callback

	// the chain needs 4 installations while the per-section bound only gives 2
	require.Len(t, cb.cutPool, 1)
	cut := cb.cutPool[0]
	assert.InDelta(t, 4.0, cut.RHS, 1e-9)
	assert.Len(t, cut.Ind, 4)
	for _, v := range cut.Val {
		assert.InDelta(t, 1.0, v, 1e-9)
	}
}

func TestSectionFailurePool(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.9, 0.8),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0, 0}, Bandwidth: 1.0, Availability: 0.95}},
	}, SFCConfig{Cuts: ArrayStringFlags{CUT_SECTION_FAILURE}})
	cb := model.Callback

	require.Len(t, cb.cutPool, 2)
	for _, cut := range cb.cutPool {
		assert.InDelta(t, -math.Log(0.05), cut.RHS, 1e-9)
		require.Len(t, cut.Ind, 2)
		assert.InDelta(t, -math.Log(0.1), cut.Val[0], 1e-9)
		assert.InDelta(t, -math.Log(0.2), cut.Val[1], 1e-9)
	}
}

func TestCutPoolIdempotence(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.99, 0.90, 0.80),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0}, Bandwidth: 1.0, Availability: 0.95}},
	}, SFCConfig{Cuts: ArrayStringFlags{CUT_NODE_COVER}})
	cb := model.Callback
	host := &fakeHost{}

	point := make([]float64, model.VarCount)
	ctx := &CallbackContext{Event: EventRelaxation, Sol: point, Host: host}

	cb.Invoke(ctx)
	require.Len(t, host.cuts, 1)
	assert.Equal(t, 1, cb.NbUserCuts())

	// the same point a second time must not resubmit anything
	cb.Invoke(ctx)
	assert.Len(t, host.cuts, 1)
	assert.Equal(t, 1, cb.NbUserCuts())
}

func TestChainCoverSeparation(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.95, 0.95),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0, 0}, Bandwidth: 1.0, Availability: 0.95}},
	}, SFCConfig{Cuts: ArrayStringFlags{CUT_CHAIN_COVER}})
	cb := model.Callback
	host := &fakeHost{}

	point := make([]float64, model.VarCount)
	point[model.XIndex(0, 0, 0)] = 0.9
	point[model.XIndex(0, 1, 0)] = 0.9
	ctx := &CallbackContext{Event: EventRelaxation, Sol: point, Host: host}
	cb.loadFractionalSolution(point)

	cb.chainCoverSeparation(ctx)

	// the one-section prefix carries 0.9 of mass but needs a full replica
	require.Len(t, host.cuts, 1)
	cut := host.cuts[0]
	assert.InDelta(t, 1.0, cut.rhs, 1e-9)
	assert.Len(t, cut.ind, 2)
	for _, v := range cut.val {
		assert.InDelta(t, 1.0, v, 1e-9)
	}
}

func TestGeneralizedCoverStopsAfterFirstCut(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes: testNodes(0.99, 0.90, 0.80),
		Vnfs:  []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{
			{ID: 0, VNFs: []int{0}, Bandwidth: 1.0, Availability: 0.95},
			{ID: 1, VNFs: []int{0}, Bandwidth: 1.0, Availability: 0.95},
		},
	}, SFCConfig{Cuts: ArrayStringFlags{CUT_CHAIN_COVER}})
	cb := model.Callback
	host := &fakeHost{}

	point := make([]float64, model.VarCount)
	ctx := &CallbackContext{Event: EventRelaxation, Sol: point, Host: host}
	cb.loadFractionalSolution(point)

	cb.generalizedCoverSeparation(ctx)

	// both demands violate but separation stops after the first find
	require.Len(t, host.cuts, 1)
	assert.InDelta(t, 1.0, host.cuts[0].rhs, 1e-9)
}

func TestHeuristicAvailabilityCover(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.6, 0.6),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0}, Bandwidth: 1.0, Availability: 0.95}},
	}, SFCConfig{Cuts: ArrayStringFlags{CUT_AVAIL_HEUR}})
	cb := model.Callback
	host := &fakeHost{}

	point := make([]float64, model.VarCount)
	point[model.XIndex(0, 0, 0)] = 0.5
	point[model.XIndex(0, 0, 1)] = 0.5
	ctx := &CallbackContext{Event: EventRelaxation, Sol: point, Host: host}
	cb.loadFractionalSolution(point)

	cb.heuristicAvailabilitySeparation(ctx)

	// node 0 seeds the placement, so the cover asks for mass on node 1
	require.Len(t, host.cuts, 1)
	cut := host.cuts[0]
	assert.InDelta(t, 1.0, cut.rhs, 1e-9)
	require.Len(t, cut.ind, 1)
	assert.Equal(t, int32(model.XIndex(0, 0, 1)), cut.ind[0])
	assert.Equal(t, 1, cb.NbHeurAvailCuts())
	assert.Equal(t, 1, cb.NbUserCuts())
}

func TestHeuristicAvailabilityCoverSatisfied(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.96),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0}, Bandwidth: 1.0, Availability: 0.95}},
	}, SFCConfig{Cuts: ArrayStringFlags{CUT_AVAIL_HEUR}})
	cb := model.Callback
	host := &fakeHost{}

	point := make([]float64, model.VarCount)
	point[model.XIndex(0, 0, 0)] = 1.0
	ctx := &CallbackContext{Event: EventRelaxation, Sol: point, Host: host}
	cb.loadFractionalSolution(point)

	cb.heuristicAvailabilitySeparation(ctx)

	assert.Empty(t, host.cuts)
	assert.Equal(t, 0, cb.NbHeurAvailCuts())
}

func TestLazyRejectionWithLifting(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.5, 0.9),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0, 0}, Bandwidth: 1.0, Availability: 0.8}},
	}, SFCConfig{})
	cb := model.Callback
	host := &fakeHost{}

	point := make([]float64, model.VarCount)
	point[model.XIndex(0, 0, 0)] = 1.0
	ctx := &CallbackContext{Event: EventCandidate, Sol: point, Host: host}

	cb.Invoke(ctx)

	// the empty second section is the violating prefix; node 0 is lifted away
	// because it alone cannot close the gap, leaving only node 1 in the nogood
	require.Len(t, host.rejections, 1)
	rej := host.rejections[0]
	assert.InDelta(t, 1.0, rej.rhs, 1e-9)
	require.Len(t, rej.ind, 1)
	assert.Equal(t, int32(model.XIndex(0, 1, 1)), rej.ind[0])
	assert.Equal(t, 1, cb.NbLazyConstraints())
}

func TestLazyAcceptsFeasibleCandidate(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.5, 0.9),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0, 0}, Bandwidth: 1.0, Availability: 0.8}},
	}, SFCConfig{})
	cb := model.Callback
	host := &fakeHost{}

	point := make([]float64, model.VarCount)
	for i := 0; i < 2; i++ {
		for v := 0; v < 2; v++ {
			point[model.XIndex(0, i, v)] = 1.0
		}
	}
	cb.Invoke(&CallbackContext{Event: EventCandidate, Sol: point, Host: host})

	assert.Empty(t, host.rejections)
	assert.Equal(t, 0, cb.NbLazyConstraints())
}

func TestNodeCoverCoefficientsFollowRanking(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.99, 0.95, 0.90, 0.80),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0, 0}, Bandwidth: 1.0, Availability: 0.95}},
	}, SFCConfig{Cuts: ArrayStringFlags{CUT_NODE_COVER}})
	cb := model.Callback
	data := model.Data

	require.NotEmpty(t, cb.cutPool)
	for _, cut := range cb.cutPool {
		require.Len(t, cut.Val, 4)
		// within one cut the coefficients never grow along the availability
		// ranking and stay between 1 and the right-hand side
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				if data.NodeRankPosition(a) < data.NodeRankPosition(b) {
					assert.GreaterOrEqual(t, cut.Val[a], cut.Val[b], cut.Name)
				}
			}
			assert.GreaterOrEqual(t, cut.Val[a], 1.0, cut.Name)
			assert.LessOrEqual(t, cut.Val[a], cut.RHS, cut.Name)
		}
	}
}

// enumeratePlacements builds, for a single two-section demand over three
// nodes, every 0/1 assignment together with whether it meets the SLA.
func enumeratePlacements(model *SFCModel) (points [][]float64, feasible []bool) {
	data := model.Data
	reqAvail := data.Inst.Demands[0].Availability
	points = make([][]float64, 1<<6)
	feasible = make([]bool, 1<<6)
	for mask := 0; mask < 1<<6; mask++ {
		point := make([]float64, model.VarCount)
		sectionAvail := make([]float64, 2)
		for i := 0; i < 2; i++ {
			var selected []int
			for v := 0; v < 3; v++ {
				if mask&(1<<(i*3+v)) != 0 {
					point[model.XIndex(0, i, v)] = 1.0
					selected = append(selected, v)
				}
			}
			sectionAvail[i] = data.ParallelAvailability(selected)
		}
		points[mask] = point
		feasible[mask] = ChainAvailability(sectionAvail) >= reqAvail
	}
	return points, feasible
}

func TestSeparatedCutsHoldOnFeasiblePlacements(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.6, 0.7, 0.8),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0, 0}, Bandwidth: 1.0, Availability: 0.9}},
	}, SFCConfig{Cuts: ArrayStringFlags{CUT_CHAIN_COVER, CUT_AVAIL_HEUR}})
	cb := model.Callback
	host := &fakeHost{}

	point := make([]float64, model.VarCount)
	for i := 0; i < 2; i++ {
		for v := 0; v < 3; v++ {
			point[model.XIndex(0, i, v)] = 0.3
		}
	}
	cb.Invoke(&CallbackContext{Event: EventRelaxation, Sol: point, Host: host})
	require.NotEmpty(t, host.cuts)

	// every separated cut must hold for every placement meeting the SLA
	points, feasible := enumeratePlacements(model)
	for mask := range points {
		if !feasible[mask] {
			continue
		}
		for c, cut := range host.cuts {
			lhs := 0.0
			for p := range cut.ind {
				lhs += cut.val[p] * points[mask][cut.ind[p]]
			}
			assert.GreaterOrEqual(t, lhs, cut.rhs-1e-9, "cut %d mask %d", c, mask)
		}
	}
}

func TestLiftedNogoodsHoldOnFeasiblePlacements(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.6, 0.7, 0.8),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0, 0}, Bandwidth: 1.0, Availability: 0.9}},
	}, SFCConfig{})
	cb := model.Callback
	host := &fakeHost{}

	points, feasible := enumeratePlacements(model)
	for mask := range points {
		before := len(host.rejections)
		cb.Invoke(&CallbackContext{Event: EventCandidate, Sol: points[mask], Host: host})
		if feasible[mask] {
			assert.Len(t, host.rejections, before, "mask %d", mask)
		} else {
			assert.Greater(t, len(host.rejections), before, "mask %d", mask)
		}
	}
	require.NotEmpty(t, host.rejections)

	// every lifted nogood must still admit every placement meeting the SLA
	for mask := range points {
		if !feasible[mask] {
			continue
		}
		for r, rej := range host.rejections {
			lhs := 0.0
			for p := range rej.ind {
				lhs += rej.val[p] * points[mask][rej.ind[p]]
			}
			assert.GreaterOrEqual(t, lhs, rej.rhs-1e-9, "nogood %d mask %d", r, mask)
		}
	}
}

func TestLazyRejectsEveryInfeasibleCandidate(t *testing.T) {
	model := newTestModel(t, &SFCInstance{
		Nodes:   testNodes(0.6, 0.7, 0.8),
		Vnfs:    []VNF{{ID: 0, Consumption: 1.0}},
		Demands: []Demand{{ID: 0, VNFs: []int{0}, Bandwidth: 1.0, Availability: 0.9}},
	}, SFCConfig{})
	cb := model.Callback
	data := model.Data

	for mask := 0; mask < 8; mask++ {
		host := &fakeHost{}
		point := make([]float64, model.VarCount)
		var selected []int
		for v := 0; v < 3; v++ {
			if mask&(1<<v) != 0 {
				point[model.XIndex(0, 0, v)] = 1.0
				selected = append(selected, v)
			}
		}
		cb.Invoke(&CallbackContext{Event: EventCandidate, Sol: point, Host: host})

		feasible := data.ParallelAvailability(selected) >= 0.9
		if feasible {
			assert.Empty(t, host.rejections, "mask %d", mask)
		} else {
			assert.Len(t, host.rejections, 1, "mask %d", mask)
		}
	}
}
