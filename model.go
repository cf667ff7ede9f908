package sfcp

import (
	"fmt"
	"math"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"
)

// pwlLine is one linear piece of a concave approximation of the logarithm,
// given as y = slope*x + intercept.
type pwlLine struct {
	slope     float64
	intercept float64
}

func CreateSFCModel(gurobiEnv *gurobi.Env, data *Data, config SFCConfig) (SFCModel, error) {
	var err error
	if gurobiEnv == nil {
		gurobiEnv, err = gurobi.LoadEnv("sfc_gurobi.log")
		if err != nil {
			Log(1, err.Error())
			return SFCModel{}, err
		}
		// the returned model keeps the environment, the caller frees it
		gurobiEnv.SetIntParam("LogToConsole", int32(0))
		defer gurobiEnv.SetIntParam("LogToConsole", int32(1))
	}

	N := data.NbNodes()
	F := data.NbVnfs()
	K := data.NbDemands()

	yCount := N * F
	nbSections := 0
	xOffset := make([]int, K)
	secOffset := make([]int, K)
	for k := 0; k < K; k++ {
		xOffset[k] = nbSections * N
		secOffset[k] = nbSections
		nbSections += len(data.Inst.Demands[k].VNFs)
	}
	xCount := nbSections * N

	yStart := 0
	xStart := yStart + yCount
	aStart := xStart + xCount
	varCount := yCount + xCount
	if config.Approx != APPROX_NONE {
		// secAvail, secUnavail, logAvail and logUnavail per section
		varCount += 4 * nbSections
	}

	varType := make([]int8, varCount)
	lb := make([]float64, varCount)
	ub := make([]float64, varCount)
	varNames := make([]string, varCount)
	objFun := make([]float64, varCount)

	placementType := int8(gurobi.BINARY)
	if config.Relaxation {
		placementType = gurobi.CONTINUOUS
	}

	model := SFCModel{
		GEnv:       gurobiEnv,
		Data:       data,
		Config:     config,
		YStart:     yStart,
		XStart:     xStart,
		XOffset:    xOffset,
		SecOffset:  secOffset,
		NbSections: nbSections,
		AStart:     aStart,
		VarCount:   varCount,
	}

	for v := 0; v < N; v++ {
		for f := 0; f < F; f++ {
			idx := model.YIndex(v, f)
			varType[idx] = placementType
			lb[idx] = 0.0
			ub[idx] = 1.0
			varNames[idx] = fmt.Sprintf("Y_%d_%d", v, f)
			objFun[idx] = data.PlacementCost(v, f)
		}
	}
	for k := 0; k < K; k++ {
		for i := range data.Inst.Demands[k].VNFs {
			for v := 0; v < N; v++ {
				idx := model.XIndex(k, i, v)
				varType[idx] = placementType
				lb[idx] = 0.0
				ub[idx] = 1.0
				varNames[idx] = fmt.Sprintf("X_%d_%d_%d", k, i, v)
				objFun[idx] = 0.0
			}
		}
	}
	if config.Approx != APPROX_NONE {
		maxAvail := data.ParallelAvailability(data.AvailNodeRank())
		for k := 0; k < K; k++ {
			beta := data.Inst.Demands[k].Availability
			logFloor := 0.0
			for v := 0; v < N; v++ {
				logFloor += math.Log(1.0 - data.Inst.Nodes[v].Availability)
			}
			for i := range data.Inst.Demands[k].VNFs {
				idx := model.AvailIndex(k, i)
				varType[idx] = gurobi.CONTINUOUS
				lb[idx] = beta
				ub[idx] = maxAvail
				varNames[idx] = fmt.Sprintf("secAvail_%d_%d", k, i)

				idx = model.UnavailIndex(k, i)
				varType[idx] = gurobi.CONTINUOUS
				lb[idx] = 1.0 - maxAvail
				ub[idx] = 1.0 - beta
				varNames[idx] = fmt.Sprintf("secUnavail_%d_%d", k, i)

				idx = model.LogAvailIndex(k, i)
				varType[idx] = gurobi.CONTINUOUS
				lb[idx] = math.Log(beta)
				ub[idx] = 0.0
				varNames[idx] = fmt.Sprintf("logAvail_%d_%d", k, i)

				idx = model.LogUnavailIndex(k, i)
				varType[idx] = gurobi.CONTINUOUS
				lb[idx] = logFloor
				ub[idx] = 0.0
				varNames[idx] = fmt.Sprintf("logUnavail_%d_%d", k, i)
			}
		}
	}

	gmodel, err := gurobiEnv.NewModel("sfc", int32(varCount), objFun, lb, ub, varType, varNames)
	if err != nil {
		Log(1, err.Error())
		return SFCModel{}, err
	}
	model.GModel = gmodel
	model.VarNames = varNames

	err = gmodel.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, gurobi.MINIMIZE)
	if err != nil {
		Log(1, err.Error())
		return SFCModel{}, err
	}

	//Add the assignment constraints: each section carries at least the replication lower bound
	{
		Log(2, "Creating and setting VNF assignment constraints")
		for k := 0; k < K; k++ {
			minNb := data.MinNbNodes(data.Inst.Demands[k].Availability)
			if minNb < 1 {
				err = fmt.Errorf("demand %d cannot reach availability %f on this substrate", k, data.Inst.Demands[k].Availability)
				Log(1, err.Error())
				return SFCModel{}, err
			}
			for i := range data.Inst.Demands[k].VNFs {
				ind := make([]int32, 0)
				val := make([]float64, 0)
				for v := 0; v < N; v++ {
					ind = append(ind, int32(model.XIndex(k, i, v)))
					val = append(val, 1.0)
				}
				err = gmodel.AddConstr(ind, val, gurobi.GREATER_EQUAL, float64(minNb), nameND("VNF_Assignment", k, i))
				if err != nil {
					Log(1, "Error adding assignment constraint at k=%d,i=%d: %s\n", k, i, err.Error())
					return SFCModel{}, err
				}
			}
		}
	}

	//Add the node capacity constraints
	{
		Log(2, "Creating and setting node capacity constraints")
		for v := 0; v < N; v++ {
			ind := make([]int32, 0)
			val := make([]float64, 0)
			for k := 0; k < K; k++ {
				for i, f := range data.Inst.Demands[k].VNFs {
					ind = append(ind, int32(model.XIndex(k, i, v)))
					val = append(val, data.Inst.Demands[k].Bandwidth*data.Inst.Vnfs[f].Consumption)
				}
			}
			err = gmodel.AddConstr(ind, val, gurobi.LESS_EQUAL, data.Inst.Nodes[v].Capacity, nameND("Node_Capacity", v))
			if err != nil {
				Log(1, "Error adding capacity constraint at v=%d: %s\n", v, err.Error())
				return SFCModel{}, err
			}
		}
	}

	//Add the placement linking constraints: assignments require an installation
	switch config.Placement {
	case PLACEMENT_AGG:
		Log(2, "Creating and setting aggregated VNF placement constraints")
		bigM := 0
		for k := 0; k < K; k++ {
			bigM += len(data.Inst.Demands[k].VNFs)
		}
		for f := 0; f < F; f++ {
			for v := 0; v < N; v++ {
				ind := make([]int32, 0)
				val := make([]float64, 0)
				for k := 0; k < K; k++ {
					for i, fik := range data.Inst.Demands[k].VNFs {
						if fik == f {
							ind = append(ind, int32(model.XIndex(k, i, v)))
							val = append(val, 1.0)
						}
					}
				}
				ind = append(ind, int32(model.YIndex(v, f)))
				val = append(val, float64(-bigM))
				err = gmodel.AddConstr(ind, val, gurobi.LESS_EQUAL, 0.0, nameND("VNF_Placement", f, v))
				if err != nil {
					Log(1, "Error adding placement constraint at f=%d,v=%d: %s\n", f, v, err.Error())
					return SFCModel{}, err
				}
			}
		}
	case PLACEMENT_DISAGG:
		Log(2, "Creating and setting disaggregated VNF placement constraints")
		for k := 0; k < K; k++ {
			for i, f := range data.Inst.Demands[k].VNFs {
				for v := 0; v < N; v++ {
					ind := []int32{int32(model.XIndex(k, i, v)), int32(model.YIndex(v, f))}
					val := []float64{1.0, -1.0}
					err = gmodel.AddConstr(ind, val, gurobi.LESS_EQUAL, 0.0, nameND("VNF_Placement", k, i, v))
					if err != nil {
						Log(1, "Error adding placement constraint at k=%d,i=%d,v=%d: %s\n", k, i, v, err.Error())
						return SFCModel{}, err
					}
				}
			}
		}
	default:
		err = fmt.Errorf("unsupported placement formulation: %s", config.Placement)
		Log(1, err.Error())
		return SFCModel{}, err
	}

	//Add the strong node capacity constraints
	if config.StrongCap {
		Log(2, "Creating and setting strong node capacity constraints")
		for v := 0; v < N; v++ {
			for f := 0; f < F; f++ {
				ind := make([]int32, 0)
				val := make([]float64, 0)
				for k := 0; k < K; k++ {
					for i, fik := range data.Inst.Demands[k].VNFs {
						if fik == f {
							ind = append(ind, int32(model.XIndex(k, i, v)))
							val = append(val, data.Inst.Demands[k].Bandwidth*data.Inst.Vnfs[f].Consumption)
						}
					}
				}
				ind = append(ind, int32(model.YIndex(v, f)))
				val = append(val, -data.Inst.Nodes[v].Capacity)
				err = gmodel.AddConstr(ind, val, gurobi.LESS_EQUAL, 0.0, nameND("Strong_Node_Capacity", v, f))
				if err != nil {
					Log(1, "Error adding strong capacity constraint at v=%d,f=%d: %s\n", v, f, err.Error())
					return SFCModel{}, err
				}
			}
		}
	}

	if config.Approx != APPROX_NONE {
		err = addAvailabilityApproxConstraints(&model)
		if err != nil {
			return SFCModel{}, err
		}
	}

	if config.Lazy {
		err = gmodel.SetIntParam(gurobi.INT_PAR_LAZYCONSTRAINTS, 1)
		if err != nil {
			Log(1, err.Error())
			return SFCModel{}, err
		}
	}
	/* PreCrush lets our own cuts be applied to the presolved model */
	err = gmodel.SetIntParam("PreCrush", 1)
	if err != nil {
		Log(1, err.Error())
		return SFCModel{}, err
	}

	model.Callback = NewCallback(&model)
	return model, nil
}

// addAvailabilityApproxConstraints links every section to its availability
// through a piecewise linear rendering of the logarithm: the chain product
// becomes the sum of per-section log variables and the section product over
// its nodes becomes a sum of log coefficients.
func addAvailabilityApproxConstraints(model *SFCModel) error {
	data := model.Data
	gmodel := model.GModel
	N := data.NbNodes()
	maxAvail := data.ParallelAvailability(data.AvailNodeRank())

	Log(2, "Creating and setting availability approximation constraints (%s, %d breakpoints)", model.Config.Approx, model.Config.NbBreakpoints)
	for k := 0; k < data.NbDemands(); k++ {
		demand := data.Inst.Demands[k]
		beta := demand.Availability

		availLines := approximationLines(availTouchs(beta, model.Config), model.Config.Approx)
		unavailLines := approximationLines(unavailTouchs(beta, maxAvail, model.Config), model.Config.Approx)

		//The chain availability must reach the SLA: sum of section logs >= log(beta)
		{
			ind := make([]int32, 0)
			val := make([]float64, 0)
			for i := range demand.VNFs {
				ind = append(ind, int32(model.LogAvailIndex(k, i)))
				val = append(val, 1.0)
			}
			err := gmodel.AddConstr(ind, val, gurobi.GREATER_EQUAL, math.Log(beta), nameND("ReqAvail", k))
			if err != nil {
				Log(1, "Error adding SLA constraint at k=%d: %s\n", k, err.Error())
				return err
			}
		}

		for i := range demand.VNFs {
			//Link availability and unavailability of the section
			{
				ind := []int32{int32(model.AvailIndex(k, i)), int32(model.UnavailIndex(k, i))}
				val := []float64{1.0, 1.0}
				err := gmodel.AddConstr(ind, val, gurobi.EQUAL, 1.0, nameND("availLink", k, i))
				if err != nil {
					Log(1, "Error adding linking constraint at k=%d,i=%d: %s\n", k, i, err.Error())
					return err
				}
			}

			//The section log variable must stay below the approximated log(secAvail)
			for j, line := range availLines {
				ind := []int32{int32(model.LogAvailIndex(k, i)), int32(model.AvailIndex(k, i))}
				val := []float64{1.0, -line.slope}
				err := gmodel.AddConstr(ind, val, gurobi.LESS_EQUAL, line.intercept, nameND("logAvailLine", k, i, j))
				if err != nil {
					Log(1, "Error adding log line at k=%d,i=%d,j=%d: %s\n", k, i, j, err.Error())
					return err
				}
			}

			//The section log unavailability equals the sum of node log coefficients
			{
				ind := []int32{int32(model.LogUnavailIndex(k, i))}
				val := []float64{1.0}
				for v := 0; v < N; v++ {
					ind = append(ind, int32(model.XIndex(k, i, v)))
					val = append(val, -math.Log(1.0-data.Inst.Nodes[v].Availability))
				}
				err := gmodel.AddConstr(ind, val, gurobi.EQUAL, 0.0, nameND("SectionAvail", k, i))
				if err != nil {
					Log(1, "Error adding section availability constraint at k=%d,i=%d: %s\n", k, i, err.Error())
					return err
				}
			}

			//The approximated log(secUnavail) must stay above the log unavailability
			for j, line := range unavailLines {
				ind := []int32{int32(model.LogUnavailIndex(k, i)), int32(model.UnavailIndex(k, i))}
				val := []float64{1.0, -line.slope}
				err := gmodel.AddConstr(ind, val, gurobi.LESS_EQUAL, line.intercept, nameND("logUnavailLine", k, i, j))
				if err != nil {
					Log(1, "Error adding log line at k=%d,i=%d,j=%d: %s\n", k, i, j, err.Error())
					return err
				}
			}
		}
	}
	return nil
}

// billionnetTouchs spaces the touch points geometrically between lb and ub.
func billionnetTouchs(lb, ub float64, nbTouchs int) []float64 {
	touchs := make([]float64, nbTouchs)
	for t := 1; t <= nbTouchs; t++ {
		expo := float64(nbTouchs-t) / float64(nbTouchs-1)
		touchs[t-1] = ub * math.Pow(lb/ub, expo)
	}
	return touchs
}

// availTouchs places the touch points for log(secAvail) on [beta, 1].
func availTouchs(beta float64, config SFCConfig) []float64 {
	nbTouchs := config.NbBreakpoints
	if config.Approx == APPROX_RELAX {
		nbTouchs = config.NbBreakpoints + 1
	}
	return billionnetTouchs(beta, 1.0, nbTouchs)
}

// unavailTouchs places the touch points for log(secUnavail) on
// [1-maxAvail, 1-beta] plus the anchor at 1.
func unavailTouchs(beta, maxAvail float64, config SFCConfig) []float64 {
	nbTouchs := config.NbBreakpoints
	if config.Approx == APPROX_RELAX {
		nbTouchs = config.NbBreakpoints + 1
	}
	const precision = 1e-8
	ub := math.Min(1.0-beta, 1.0-precision)
	lb := math.Max(1.0-maxAvail, precision)
	return append(billionnetTouchs(lb, ub, nbTouchs), 1.0)
}

// approximationLines turns the touch points into linear pieces of log(x). The
// relaxation uses the tangents at the touch points (an upper approximation of
// the concave log); the restriction uses a leading ray, the secants between
// consecutive touchs and a trailing horizontal line (a lower approximation).
func approximationLines(touchs []float64, approx string) []pwlLine {
	var lines []pwlLine
	switch approx {
	case APPROX_RELAX:
		for _, p := range touchs {
			lines = append(lines, pwlLine{slope: 1.0 / p, intercept: math.Log(p) - 1.0})
		}
	case APPROX_RESTRICT:
		first := 1.0 / touchs[0]
		lines = append(lines, pwlLine{slope: first, intercept: math.Log(touchs[0]) - 1.0})
		for i := 0; i < len(touchs)-1; i++ {
			slope := (math.Log(touchs[i+1]) - math.Log(touchs[i])) / (touchs[i+1] - touchs[i])
			lines = append(lines, pwlLine{slope: slope, intercept: math.Log(touchs[i]) - slope*touchs[i]})
		}
		last := touchs[len(touchs)-1]
		lines = append(lines, pwlLine{slope: 0.0, intercept: math.Log(last)})
	}
	return lines
}
