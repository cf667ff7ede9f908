package sfcp

import (
	"math"
)

// runHeuristic launches the two-phase rounding matheuristic on the current
// fractional point. Phase I randomly rounds the placement and assignment
// variables under the node capacities; phase II repairs the availability of
// every demand by installing additional copies at its weakest section. The
// result is only posted when it beats the incumbent.
func (cb *Callback) runHeuristic(ctx *CallbackContext) {
	if !cb.model.Config.Heuristic || !cb.heuristicRule(ctx) {
		return
	}
	cb.heuristicPhaseI(ctx)
	Log(4, "Rounded placement:\n%s", PrintFloat2DArray(cb.ySol))
	if cb.heuristicPhaseII() && cb.objSol < ctx.ObjBest {
		cb.postHeuristicSolution(ctx)
	}
}

// heuristicRule draws the launch lottery: the closer the search is to the
// incumbent, the smaller the chance of spending time on rounding. Disabled
// entirely when the model carries approximation variables, since the rounded
// point could not be completed consistently for them.
func (cb *Callback) heuristicRule(ctx *CallbackContext) bool {
	if cb.model.Config.Approx != APPROX_NONE {
		return false
	}
	limit := (ctx.ObjBest - ctx.ObjBound) / ctx.ObjBest
	if math.IsNaN(limit) || limit > 1.0 {
		limit = 1.0
	}
	return cb.rng.Float64() <= limit
}

func (cb *Callback) heuristicPhaseI(ctx *CallbackContext) {
	data := cb.data
	m := cb.model
	cb.objSol = 0.0
	for v := 0; v < data.NbNodes(); v++ {
		for f := 0; f < data.NbVnfs(); f++ {
			if cb.rng.Float64() <= ctx.Sol[m.YIndex(v, f)] {
				cb.ySol[v][f] = 1.0
				cb.objSol += data.PlacementCost(v, f)
			} else {
				cb.ySol[v][f] = 0.0
			}
		}
	}
	for v := 0; v < data.NbNodes(); v++ {
		cb.remainingCapacity[v] = data.Inst.Nodes[v].Capacity
		for k, demand := range data.Inst.Demands {
			for i, f := range demand.VNFs {
				reqCapacity := demand.Bandwidth * data.Inst.Vnfs[f].Consumption
				cb.xSol[k][i][v] = 0.0
				if cb.ySol[v][f] == 1.0 && reqCapacity <= cb.remainingCapacity[v] {
					if cb.rng.Float64() <= ctx.Sol[m.XIndex(k, i, v)] {
						cb.xSol[k][i][v] = 1.0
						cb.remainingCapacity[v] -= reqCapacity
					}
				}
			}
		}
	}
}

// heuristicPhaseII repairs availability demand by demand, always reinforcing
// the least available section. Reports whether a feasible assignment was
// reached; a false return leaves the buffers dirty but is recoverable, the
// next launch rebuilds them from scratch.
func (cb *Callback) heuristicPhaseII() bool {
	data := cb.data
	for k, demand := range data.Inst.Demands {
		for {
			avail, leastSection := cb.solutionAvail(k)
			if avail >= demand.Availability {
				break
			}
			f := demand.VNFs[leastSection]
			v := cb.getNodeToInstall(f, k)
			if v == -1 {
				return false
			}
			cb.xSol[k][leastSection][v] = 1.0
			cb.remainingCapacity[v] -= demand.Bandwidth * data.Inst.Vnfs[f].Consumption
			if cb.ySol[v][f] == 0.0 {
				cb.ySol[v][f] = 1.0
				cb.objSol += data.PlacementCost(v, f)
			}
		}
	}
	return true
}

// getNodeToInstall picks the cheapest node with enough remaining capacity for
// one more copy of VNF f; nodes already hosting f cost nothing extra. Ties
// are broken towards the largest remaining capacity.
func (cb *Callback) getNodeToInstall(f, k int) int {
	data := cb.data
	reqCapacity := data.Inst.Demands[k].Bandwidth * data.Inst.Vnfs[f].Consumption
	maxRemainingCapacity := 0.0
	minValue := math.Inf(1)
	selectedNode := -1

	for v := 0; v < data.NbNodes(); v++ {
		if reqCapacity > cb.remainingCapacity[v] {
			continue
		}
		additionalCost := data.PlacementCost(v, f) * (1.0 - cb.ySol[v][f])
		if additionalCost > minValue+EPSILON {
			continue
		}
		if additionalCost <= minValue-EPSILON || cb.remainingCapacity[v] >= maxRemainingCapacity+EPSILON {
			selectedNode = v
			minValue = additionalCost
			maxRemainingCapacity = cb.remainingCapacity[v]
		}
	}
	return selectedNode
}

// solutionAvail returns the chain availability of demand k in the heuristic
// buffers along with the index of its least available section.
func (cb *Callback) solutionAvail(k int) (float64, int) {
	data := cb.data
	availability := 1.0
	minSectionAvail := 1.0
	leastSection := -1
	for i := range data.Inst.Demands[k].VNFs {
		sectionFail := 1.0
		for v := 0; v < data.NbNodes(); v++ {
			if cb.xSol[k][i][v] == 1.0 {
				sectionFail *= 1.0 - data.Inst.Nodes[v].Availability
			}
		}
		sectionAvail := 1.0 - sectionFail
		if sectionAvail < minSectionAvail {
			minSectionAvail = sectionAvail
			leastSection = i
		}
		availability *= sectionAvail
	}
	return availability, leastSection
}

func (cb *Callback) postHeuristicSolution(ctx *CallbackContext) {
	m := cb.model
	data := cb.data
	sol := make([]float64, m.VarCount)
	for v := 0; v < data.NbNodes(); v++ {
		for f := 0; f < data.NbVnfs(); f++ {
			sol[m.YIndex(v, f)] = cb.ySol[v][f]
		}
	}
	for k, demand := range data.Inst.Demands {
		for i := range demand.VNFs {
			for v := 0; v < data.NbNodes(); v++ {
				sol[m.XIndex(k, i, v)] = cb.xSol[k][i][v]
			}
		}
	}
	obj, err := ctx.Host.PostSolution(sol)
	if err != nil {
		Log(1, "Couldn't post the heuristic solution: %s", err.Error())
		return
	}
	Log(2, "Posted heuristic solution with objective %f (accepted as %f)", cb.objSol, obj)
}
