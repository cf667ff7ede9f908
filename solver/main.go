/* Copyright 2021, Arkadiusz Zarychta, arkadiusz.zarychta@h-brs.de */
/* Copyright 2021, Gurobi Optimization, LLC */

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"
	"git.solver4all.com/azaryc2s/sfcp"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

var (
	sol   sfcp.SFCSolution
	pInst sfcp.SFCInstance
	data  *sfcp.Data

	cuts      sfcp.ArrayStringFlags
	approx    *string
	breaks    *int
	placement *string
	strongCap *bool
	lazy      *bool
	heuristic *bool
	relax     *bool
	seed      *int64
	timeLimit *float64
	inputF    *string
	outputF   *string
	logLvl    *int
)

func main() {
	var err error

	flag.Var(&cuts, "cuts", "List of cut families to be used. Possible: {NODE_COVER, VNF_LB, SECTION_FAILURE, CHAIN_COVER, AVAIL_HEUR}")
	approx = flag.String("approx", sfcp.APPROX_NONE, "Availability approximation built into the model. NONE (default), RELAX or RESTRICT")
	breaks = flag.Int("breakpoints", 10, "Number of breakpoints for the availability approximation")
	placement = flag.String("placement", sfcp.PLACEMENT_AGG, "Placement linking formulation. AGG (default) or DISAGG")
	strongCap = flag.Bool("strongcap", false, "Add the strong node capacity constraints")
	lazy = flag.Bool("lazy", true, "Check integer candidates against the exact availability requirements")
	heuristic = flag.Bool("heuristic", false, "Run the rounding matheuristic on fractional points")
	relax = flag.Bool("relax", false, "Solve the linear relaxation instead of the integer model")
	seed = flag.Int64("seed", 0, "Seed for the randomized components")
	timeLimit = flag.Float64("timelimit", 3600.0, "Time limit for the optimization in seconds")
	inputF = flag.String("input", "input.json", "Path to the input instance")
	outputF = flag.String("output", "", "Path to the output file. By default the input file will be overwritten adding the solution")
	logLvl = flag.Int("log", 2, "Level of the logging output. Higher value is more verbose. Range 1-4")

	flag.Parse()

	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	sol = sfcp.SFCSolution{Comment: "", System: sfcp.SysInfo{hostStat.Platform, cpuStat[0].ModelName, fmt.Sprintf("%d GB", (vmStat.Total / 1024 / 1024 / 1024))}}

	instStr, err := ioutil.ReadFile(*inputF)

	sfcp.InitLoggers(*logLvl)
	if err != nil {
		sfcp.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}

	err = json.Unmarshal(instStr, &pInst)
	if err != nil {
		sfcp.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}
	pInst.Solution = &sol

	data, err = sfcp.NewData(&pInst)
	if err != nil {
		sfcp.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}

	// Create environment
	env, err := gurobi.LoadEnv("sfc_gurobi.log")
	if err != nil {
		sfcp.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}
	defer env.Free()
	threads, _ := env.GetIntParam(gurobi.INT_PAR_THREADS)
	sol.Comment = fmt.Sprintf("Solver-Settings: SolverDev: Zarychta, Threads=%d, Approx=%s, Placement=%s, Lazy=%t, Heuristic=%t, Cuts=%s", threads, *approx, *placement, *lazy, *heuristic, cuts.String())

	config := sfcp.SFCConfig{
		Cuts:          cuts,
		Approx:        *approx,
		NbBreakpoints: *breaks,
		Placement:     *placement,
		StrongCap:     *strongCap,
		Lazy:          *lazy,
		Heuristic:     *heuristic,
		Relaxation:    *relax,
		Seed:          *seed,
	}

	model, err := sfcp.CreateSFCModel(env, data, config)
	if err != nil {
		sfcp.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}

	// Write model to '<fileName>.lp'
	lpName := strings.ReplaceAll(*inputF, ".json", ".lp")
	err = model.GModel.Write(lpName)
	if err != nil {
		sfcp.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}

	err = model.GModel.SetDblParam("TimeLimit", *timeLimit)
	if err != nil {
		sfcp.Log(1, err.Error())
	}

	err = model.GModel.SetCallbackFuncGo(sfcp.BCCallbackSFC, &model)
	if err != nil {
		sfcp.Log(1, err.Error())
		return
	}

	startTime := time.Now()
	err = model.GModel.Optimize()
	if err != nil {
		sfcp.Log(1, err.Error())
		return
	}
	sol.Time = time.Since(startTime).String()
	sfcp.Log(2, "\n---OPTIMIZATION DONE---\n")
	captureSolution(&model)

	solValid, validComment := sfcp.CheckSolutionValidity(data, &sol)
	if !solValid {
		sfcp.Log(1, validComment)
		sol.Comment += validComment
	} else {
		sfcp.Log(1, "The computed solution is valid! ")
	}
	writeSolution()
	sfcp.Log(2, "Found a SFC placement with obj-value of %f\n", sol.Obj)
}

func captureSolution(model *sfcp.SFCModel) {
	gmodel := model.GModel
	// Capture solution information
	optimstatus, err := gmodel.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		sol.Comment += fmt.Sprintf("Couldn't retrieve optimization status: %s. ", err.Error())
		return
	}

	if optimstatus == gurobi.OPTIMAL {
		sol.Optimal = true
	} else if optimstatus == gurobi.INF_OR_UNBD {
		sfcp.Log(1, "Model for %s is infeasible or unbounded\n", *inputF)
	} else if optimstatus == gurobi.TIME_LIMIT {
		sol.Comment += "Time limit reached. "
	} else {
		sol.Comment += "For some reason the optimization stopped before the time limit without an optimal solution. "
	}

	objval, err := gmodel.GetDblAttr(gurobi.DBL_ATTR_OBJVAL)
	if err != nil {
		sol.Comment += fmt.Sprintf("Couldn't retrieve the obj-value: %s. ", err.Error())
		return
	}
	sol.Obj = objval
	sol.UBound = objval

	lb, err := gmodel.GetDblAttr(gurobi.DBL_ATTR_OBJBOUND)
	if err != nil {
		sol.Comment += fmt.Sprintf("Couldn't retrieve the lower-bound-value: %s. ", err.Error())
		sfcp.Log(1, err.Error())
	}
	sol.LBound = lb

	solcount, err := gmodel.GetIntAttr(gurobi.INT_ATTR_SOLCOUNT)
	if err != nil {
		sfcp.Log(1, err.Error())
		return
	}
	if solcount > 0 {
		solA, err := gmodel.GetDblAttrArray(gurobi.DBL_ATTR_X, 0, int32(model.VarCount))
		if err != nil {
			sfcp.Log(1, err.Error())
			return
		}

		sol.Placements = make([][]int, data.NbNodes())
		for v := 0; v < data.NbNodes(); v++ {
			sol.Placements[v] = make([]int, 0)
			for f := 0; f < data.NbVnfs(); f++ {
				if solA[model.YIndex(v, f)] > 0.5 {
					sol.Placements[v] = append(sol.Placements[v], f)
				}
			}
		}
		sol.Assignments = make([][][]int, data.NbDemands())
		sol.ChainAvail = make([]float64, data.NbDemands())
		for k, demand := range data.Inst.Demands {
			sol.Assignments[k] = make([][]int, len(demand.VNFs))
			sectionAvail := make([]float64, len(demand.VNFs))
			for i := range demand.VNFs {
				sol.Assignments[k][i] = make([]int, 0)
				for v := 0; v < data.NbNodes(); v++ {
					if solA[model.XIndex(k, i, v)] > 0.5 {
						sol.Assignments[k][i] = append(sol.Assignments[k][i], v)
					}
				}
				sectionAvail[i] = data.ParallelAvailability(sol.Assignments[k][i])
			}
			sol.ChainAvail[k] = sfcp.ChainAvailability(sectionAvail)
			violation := demand.Availability - sol.ChainAvail[k]
			if violation > 1e-12 {
				sol.AvailViolations++
				if violation > sol.MaxAvailViolation {
					sol.MaxAvailViolation = violation
				}
			}
		}
	}

	cb := model.Callback
	sol.NbUserCuts = cb.NbUserCuts()
	sol.NbLazyConstraints = cb.NbLazyConstraints()
	sol.NbHeurAvailCuts = cb.NbHeurAvailCuts()
	sol.CallbackTime = cb.Time().String()
	sfcp.Log(2, "Added %d user cuts (%d by the availability heuristic) and %d lazy constraints", sol.NbUserCuts, sol.NbHeurAvailCuts, sol.NbLazyConstraints)
}

func writeSolution() {
	jsonInst, err := json.MarshalIndent(pInst, "", "\t")
	if err != nil {
		sfcp.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}
	jsonInst = []byte(sfcp.SanitizeJsonArrayLineBreaks(string(jsonInst)))
	var fileName string
	if *outputF == "" {
		fileName = *inputF //overwrite the input file
	} else {
		fileName = *outputF
	}
	err = ioutil.WriteFile(fileName, jsonInst, 0644)
	if err != nil {
		sfcp.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}
}
