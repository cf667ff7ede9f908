package sfcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataValidation(t *testing.T) {
	vnfs := []VNF{{ID: 0, Consumption: 1.0}}

	_, err := NewData(&SFCInstance{
		Nodes: []SubstrateNode{{ID: 0, Capacity: 10.0, Availability: 1.0}},
		Vnfs:  vnfs,
	})
	assert.Error(t, err)

	_, err = NewData(&SFCInstance{
		Nodes:   testNodes(0.9),
		Vnfs:    vnfs,
		Demands: []Demand{{ID: 0, VNFs: []int{}, Availability: 0.9}},
	})
	assert.Error(t, err)

	_, err = NewData(&SFCInstance{
		Nodes:   testNodes(0.9),
		Vnfs:    vnfs,
		Demands: []Demand{{ID: 0, VNFs: []int{3}, Availability: 0.9}},
	})
	assert.Error(t, err)

	_, err = NewData(&SFCInstance{
		Nodes:   testNodes(0.9),
		Vnfs:    vnfs,
		Demands: []Demand{{ID: 0, VNFs: []int{0}, Availability: 1.5}},
	})
	assert.Error(t, err)
}

func TestAvailabilityRanking(t *testing.T) {
	data, err := NewData(&SFCInstance{Nodes: testNodes(0.90, 0.95, 0.80)})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 0, 2}, data.AvailNodeRank())
	assert.Equal(t, 1, data.NodeRankPosition(0))
	assert.Equal(t, 0, data.NodeRankPosition(1))
	assert.Equal(t, 2, data.NodeRankPosition(2))
}

func TestParallelAvailability(t *testing.T) {
	data, err := NewData(&SFCInstance{Nodes: testNodes(0.9, 0.8)})
	require.NoError(t, err)

	assert.InDelta(t, 0.02, data.FailureProb([]int{0, 1}), 1e-9)
	assert.InDelta(t, 0.98, data.ParallelAvailability([]int{0, 1}), 1e-9)
	assert.InDelta(t, 1.0, data.ParallelAvailability(nil), 1e-9)
}

func TestChainAvailability(t *testing.T) {
	assert.InDelta(t, 0.9025, ChainAvailability([]float64{0.95, 0.95}), 1e-9)
	assert.InDelta(t, 1.0, ChainAvailability(nil), 1e-9)
}

func TestPlacementCost(t *testing.T) {
	data, err := NewData(&SFCInstance{
		Nodes: []SubstrateNode{{ID: 0, Capacity: 10.0, Availability: 0.9, UnitCost: 3.0}},
		Vnfs:  []VNF{{ID: 0, Consumption: 2.5}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 7.5, data.PlacementCost(0, 0), 1e-9)
}

func TestMinNbNodesWithAvail(t *testing.T) {
	data, err := NewData(&SFCInstance{Nodes: testNodes(0.9)})
	require.NoError(t, err)

	// a single node already good enough
	assert.Equal(t, 1, data.MinNbNodesWithAvail(0.95, 0.99))
	// 1-(1-0.5)^m >= 0.95 needs m = 5
	assert.Equal(t, 5, data.MinNbNodesWithAvail(0.95, 0.5))
	// 1-(1-0.9)^2 = 0.99 >= 0.95
	assert.Equal(t, 2, data.MinNbNodesWithAvail(0.95, 0.9))
}

func TestMinNbNodes(t *testing.T) {
	data, err := NewData(&SFCInstance{Nodes: testNodes(0.90, 0.80, 0.93)})
	require.NoError(t, err)

	// best node alone gives 0.93, the two best give 1-0.07*0.10 = 0.993
	assert.Equal(t, 2, data.MinNbNodes(0.95))
	assert.Equal(t, 1, data.MinNbNodes(0.93))
}

func TestVnfLB(t *testing.T) {
	data, err := NewData(&SFCInstance{Nodes: testNodes(0.95, 0.95)})
	require.NoError(t, err)

	assert.Equal(t, 1, data.VnfLB(0.95, 1))
	// 0.95*0.95 < 0.95, so both sections need a second replica
	assert.Equal(t, 4, data.VnfLB(0.95, 2))
}

func TestVnfLBUnreachable(t *testing.T) {
	data, err := NewData(&SFCInstance{Nodes: testNodes(0.9)})
	require.NoError(t, err)

	assert.Equal(t, -1, data.VnfLB(0.9999, 1))
	assert.Equal(t, -1, data.VnfLB(0.5, 0))
}

func TestVnfLBRestricted(t *testing.T) {
	data, err := NewData(&SFCInstance{Nodes: testNodes(0.99, 0.90, 0.80)})
	require.NoError(t, err)

	// the full substrate covers 0.95 with the best node alone
	assert.Equal(t, 1, data.VnfLB(0.95, 1))
	// without node 0 two replicas are needed: 1-0.10*0.20 = 0.98
	assert.Equal(t, 2, data.VnfLBRestricted([]bool{false, true, true}, 1, 0.95))
	// the worst node alone can never get there
	assert.Equal(t, -1, data.VnfLBRestricted([]bool{false, false, true}, 1, 0.95))
}
