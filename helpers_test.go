package sfcp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordedConstraint struct {
	ind   []int32
	val   []float64
	sense int8
	rhs   float64
}

// fakeHost records every submission instead of handing it to a solver.
type fakeHost struct {
	cuts       []recordedConstraint
	rejections []recordedConstraint
	posted     [][]float64
}

func (h *fakeHost) AddCut(ind []int32, val []float64, sense int8, rhs float64) error {
	h.cuts = append(h.cuts, recordedConstraint{ind: ind, val: val, sense: sense, rhs: rhs})
	return nil
}

func (h *fakeHost) RejectCandidate(ind []int32, val []float64, sense int8, rhs float64) error {
	h.rejections = append(h.rejections, recordedConstraint{ind: ind, val: val, sense: sense, rhs: rhs})
	return nil
}

func (h *fakeHost) PostSolution(sol []float64) (float64, error) {
	stored := make([]float64, len(sol))
	copy(stored, sol)
	h.posted = append(h.posted, stored)
	return 0.0, nil
}

// newTestModel lays out the flat variable space the same way CreateSFCModel
// does, without touching a solver environment.
func newTestModel(t *testing.T, inst *SFCInstance, config SFCConfig) *SFCModel {
	t.Helper()
	data, err := NewData(inst)
	require.NoError(t, err)

	N := data.NbNodes()
	yCount := N * data.NbVnfs()
	nbSections := 0
	xOffset := make([]int, data.NbDemands())
	secOffset := make([]int, data.NbDemands())
	for k := 0; k < data.NbDemands(); k++ {
		xOffset[k] = nbSections * N
		secOffset[k] = nbSections
		nbSections += len(inst.Demands[k].VNFs)
	}
	model := &SFCModel{
		Data:       data,
		Config:     config,
		YStart:     0,
		XStart:     yCount,
		XOffset:    xOffset,
		SecOffset:  secOffset,
		NbSections: nbSections,
		AStart:     yCount + nbSections*N,
		VarCount:   yCount + nbSections*N,
	}
	model.Callback = NewCallback(model)
	return model
}

func testNodes(avail ...float64) []SubstrateNode {
	nodes := make([]SubstrateNode, len(avail))
	for v, a := range avail {
		nodes[v] = SubstrateNode{ID: v, Capacity: 100.0, Availability: a, UnitCost: 1.0}
	}
	return nodes
}
