package sfcp

import (
	"math"
	"math/rand"
	"os"
	"sync"
	"time"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"
)

const (
	EPS     = 1e-4 // large tolerance, used for float precision
	EPSILON = 1e-6 // small tolerance, used for float precision
)

type CallbackEvent int

const (
	EventRelaxation CallbackEvent = iota
	EventCandidate
)

// SearchHost is the submission capability handed to the callback engine by the
// solving host: forced-use cuts on fractional points, candidate rejections and
// full heuristic solutions.
type SearchHost interface {
	AddCut(ind []int32, val []float64, sense int8, rhs float64) error
	RejectCandidate(ind []int32, val []float64, sense int8, rhs float64) error
	PostSolution(sol []float64) (float64, error)
}

type gurobiHost struct {
	cbdata gurobi.CPVoid
}

func (h gurobiHost) AddCut(ind []int32, val []float64, sense int8, rhs float64) error {
	return gurobi.CbCut(h.cbdata, len(ind), ind, val, sense, rhs)
}

func (h gurobiHost) RejectCandidate(ind []int32, val []float64, sense int8, rhs float64) error {
	return gurobi.CbLazy(h.cbdata, len(ind), ind, val, sense, rhs)
}

func (h gurobiHost) PostSolution(sol []float64) (float64, error) {
	return gurobi.CbSolution(h.cbdata, sol)
}

// CallbackContext carries one host invocation: the event kind, the flat
// variable values at the current point and the objective information known to
// the search.
type CallbackContext struct {
	Event    CallbackEvent
	Sol      []float64
	ObjBest  float64
	ObjBound float64
	Host     SearchHost
}

// Cut is an immutable >= inequality over the flat variable space.
type Cut struct {
	Name string
	Ind  []int32
	Val  []float64
	RHS  float64

	submitted bool
}

// Value evaluates the left-hand side of the cut at the given point.
func (c *Cut) Value(sol []float64) float64 {
	lhs := 0.0
	for t := range c.Ind {
		lhs += c.Val[t] * sol[c.Ind[t]]
	}
	return lhs
}

// Callback implements the branch-and-cut extension engine: the static cut
// pool, the dynamic cover separations, the availability nogoods and the
// two-phase matheuristic. It is invoked synchronously by the host search and
// creates no goroutines of its own.
type Callback struct {
	model *SFCModel
	data  *Data

	cutPool []*Cut

	// invocations may arrive from parallel search workers; the working
	// buffers below are shared, so invocations are serialized
	invokeMu sync.Mutex

	xSol              [][][]float64
	ySol              [][]float64
	objSol            float64
	remainingCapacity []float64
	rng               *rand.Rand

	mu                sync.Mutex
	nbUserCuts        int
	nbLazyConstraints int
	nbHeurAvailCuts   int
	timeAll           time.Duration
}

func NewCallback(model *SFCModel) *Callback {
	data := model.Data
	cb := &Callback{model: model, data: data}
	cb.setCutPool()

	cb.ySol = make([][]float64, data.NbNodes())
	for v := range cb.ySol {
		cb.ySol[v] = make([]float64, data.NbVnfs())
	}
	cb.xSol = make([][][]float64, data.NbDemands())
	for k := range cb.xSol {
		cb.xSol[k] = make([][]float64, len(data.Inst.Demands[k].VNFs))
		for i := range cb.xSol[k] {
			cb.xSol[k][i] = make([]float64, data.NbNodes())
		}
	}
	cb.remainingCapacity = make([]float64, data.NbNodes())
	cb.rng = rand.New(rand.NewSource(model.Config.Seed))
	return cb
}

// BCCallbackSFC is the entry point registered with the host solver. It maps
// the solver callback spots onto the two engine events and ignores the rest.
func BCCallbackSFC(gmodel *gurobi.Model, cbdata gurobi.CPVoid, where int32, usrdata interface{}) int32 {
	m := usrdata.(*SFCModel)
	cb := m.Callback

	switch where {
	case gurobi.CB_MIPNODE:
		status, err := gurobi.CbGetInt(cbdata, where, gurobi.CB_MIPNODE_STATUS)
		if err != nil {
			Log(1, "Couldn't retrieve the node status: %s", err.Error())
			return 0
		}
		if status != gurobi.OPTIMAL {
			return 0
		}
		rel, err := gurobi.CbGetDblArray(cbdata, where, gurobi.CB_MIPNODE_REL, m.VarCount)
		if err != nil {
			Log(1, "Couldn't retrieve the relaxation point: %s", err.Error())
			return 0
		}
		objBest, err := gurobi.CbGetDbl(cbdata, where, gurobi.CB_MIPNODE_OBJBST)
		if err != nil {
			Log(1, "Couldn't retrieve the incumbent objective: %s", err.Error())
			return 0
		}
		objBound, err := gurobi.CbGetDbl(cbdata, where, gurobi.CB_MIPNODE_OBJBND)
		if err != nil {
			Log(1, "Couldn't retrieve the objective bound: %s", err.Error())
			return 0
		}
		cb.Invoke(&CallbackContext{Event: EventRelaxation, Sol: rel, ObjBest: objBest, ObjBound: objBound, Host: gurobiHost{cbdata}})
	case gurobi.CB_MIPSOL:
		if !m.Config.Lazy {
			return 0
		}
		sol, err := gurobi.CbGetDblArray(cbdata, where, gurobi.CB_MIPSOL_SOL, m.VarCount)
		if err != nil {
			// a candidate event must always carry a bounded point
			Log(1, "No candidate point available on a candidate event: %s", err.Error())
			os.Exit(1)
		}
		cb.Invoke(&CallbackContext{Event: EventCandidate, Sol: sol, Host: gurobiHost{cbdata}})
	}
	return 0
}

// Invoke routes one host invocation by event kind. On fractional points the
// pool is checked first, the dynamic separations run only on a clean pool and
// the matheuristic only when no cut was found at all.
func (cb *Callback) Invoke(ctx *CallbackContext) {
	cb.invokeMu.Lock()
	defer cb.invokeMu.Unlock()
	start := time.Now()
	switch ctx.Event {
	case EventRelaxation:
		before := cb.NbUserCuts()
		cb.addUserCuts(ctx)
		if cb.NbUserCuts() == before {
			cb.runHeuristic(ctx)
		}
	case EventCandidate:
		cb.addLazyConstraints(ctx)
	default:
		Log(1, "Unexpected callback event %d", ctx.Event)
		os.Exit(1)
	}
	cb.incrementTime(time.Since(start))
}

func (cb *Callback) loadFractionalSolution(sol []float64) {
	for k := range cb.xSol {
		for i := range cb.xSol[k] {
			for v := range cb.xSol[k][i] {
				cb.xSol[k][i][v] = sol[cb.model.XIndex(k, i, v)]
			}
		}
	}
}

func (cb *Callback) loadIntegerSolution(sol []float64) {
	cb.loadFractionalSolution(sol)
}

/*************************************************************************/
/*                              CUT POOL                                 */
/*************************************************************************/

// setCutPool builds the three polynomial-size cut families once. Every entry
// is valid for all feasible integer solutions; validity is never re-derived at
// runtime.
func (cb *Callback) setCutPool() {
	if cb.model.HasCut(CUT_NODE_COVER) {
		cb.addNodeCoverCuts()
	}
	if cb.model.HasCut(CUT_VNF_LB) {
		cb.addVnfLowerBoundCuts()
	}
	if cb.model.HasCut(CUT_SECTION_FAILURE) {
		cb.addSectionFailureCuts()
	}
	Log(2, "Cut pool holds %d cuts", len(cb.cutPool))
}

// addNodeCoverCuts emits, for each demand, section and non-dominated node v,
// the weighted cover over the set of nodes at most as available as v.
func (cb *Callback) addNodeCoverCuts() {
	data := cb.data
	rank := data.AvailNodeRank()
	for k, demand := range data.Inst.Demands {
		c := make([]int, data.NbNodes())
		for _, v := range rank {
			c[v] = data.MinNbNodesWithAvail(demand.Availability, data.Inst.Nodes[v].Availability)
		}
		for i := range demand.VNFs {
			for v := 0; v < data.NbNodes(); v++ {
				pos := data.NodeRankPosition(v)
				if pos == 0 {
					continue
				}
				// dominated constraints (non-increasing count) are skipped
				if c[v] <= c[rank[pos-1]] {
					continue
				}
				cut := &Cut{Name: nameND("NodeCover", k, i, v), RHS: float64(c[v])}
				for j := 0; j < data.NbNodes(); j++ {
					coeff := 1
					if data.NodeRankPosition(j) < pos {
						if c[v]-c[j]+1 > 1 {
							coeff = c[v] - c[j] + 1
						}
					}
					cut.Ind = append(cut.Ind, int32(cb.model.XIndex(k, i, j)))
					cut.Val = append(cut.Val, float64(coeff))
				}
				cb.cutPool = append(cb.cutPool, cut)
			}
		}
	}
}

// addVnfLowerBoundCuts emits the whole-chain installation bound for every
// demand where it beats the trivial per-section bound.
func (cb *Callback) addVnfLowerBoundCuts() {
	data := cb.data
	for k, demand := range data.Inst.Demands {
		nbSections := len(demand.VNFs)
		rhs := data.VnfLB(demand.Availability, nbSections)
		if rhs <= nbSections*data.VnfLB(demand.Availability, 1) {
			continue
		}
		cut := &Cut{Name: nameND("VNF_LowerBound", k), RHS: float64(rhs)}
		for i := range demand.VNFs {
			for v := 0; v < data.NbNodes(); v++ {
				cut.Ind = append(cut.Ind, int32(cb.model.XIndex(k, i, v)))
				cut.Val = append(cut.Val, 1.0)
			}
		}
		cb.cutPool = append(cb.cutPool, cut)
	}
}

// addSectionFailureCuts emits the log-linearized per-section failure bound
// sum_v -log(1-a(v)) x >= -log(1-beta).
func (cb *Callback) addSectionFailureCuts() {
	data := cb.data
	for k, demand := range data.Inst.Demands {
		rhs := -math.Log(1.0 - demand.Availability)
		for i := range demand.VNFs {
			cut := &Cut{Name: nameND("Section_Fail", k, i), RHS: rhs}
			for v := 0; v < data.NbNodes(); v++ {
				cut.Ind = append(cut.Ind, int32(cb.model.XIndex(k, i, v)))
				cut.Val = append(cut.Val, -math.Log(1.0-data.Inst.Nodes[v].Availability))
			}
			cb.cutPool = append(cb.cutPool, cut)
		}
	}
}

/*************************************************************************/
/*                          USER CUT SEPARATION                          */
/*************************************************************************/

func (cb *Callback) addUserCuts(ctx *CallbackContext) {
	cb.loadFractionalSolution(ctx.Sol)
	// the exponential families are only separated when the pool is clean
	if cb.checkCutPool(ctx) {
		return
	}
	if cb.model.HasCut(CUT_CHAIN_COVER) {
		cb.generalizedCoverSeparation(ctx)
		cb.chainCoverSeparation(ctx)
	}
	if cb.model.HasCut(CUT_AVAIL_HEUR) {
		cb.heuristicAvailabilitySeparation(ctx)
	}
}

// checkCutPool submits every not-yet-submitted pool cut violated by the
// current point and reports whether any was found. A submitted cut stays in
// the host model, so it is never re-submitted.
func (cb *Callback) checkCutPool(ctx *CallbackContext) bool {
	found := false
	for _, cut := range cb.cutPool {
		if cut.submitted {
			continue
		}
		if cut.Value(ctx.Sol) < cut.RHS-EPS {
			Log(3, "Adding %s", cut.Name)
			if err := ctx.Host.AddCut(cut.Ind, cut.Val, gurobi.GREATER_EQUAL, cut.RHS); err != nil {
				Log(1, err.Error())
				continue
			}
			cut.submitted = true
			cb.incrementUserCuts()
			found = true
		}
	}
	return found
}

// chainCoverSeparation looks, per demand, for the shortest ascending section
// prefix whose fractional mass undercuts the installation bound for that many
// sections. At most one cut per demand per call.
func (cb *Callback) chainCoverSeparation(ctx *CallbackContext) {
	data := cb.data
	for k, demand := range data.Inst.Demands {
		nbSections := len(demand.VNFs)
		sumOverNodes := make([]float64, nbSections)
		for i := 0; i < nbSections; i++ {
			for v := 0; v < data.NbNodes(); v++ {
				sumOverNodes[i] += cb.xSol[k][i][v]
			}
		}
		sortedSections := GetSortedIndexesAsc(sumOverNodes)
		for p := 1; p <= nbSections; p++ {
			lhs := 0.0
			for i := 0; i < p; i++ {
				lhs += sumOverNodes[sortedSections[i]]
			}
			rhs := data.VnfLB(demand.Availability, p)
			if rhs < 0 || lhs >= float64(rhs)-EPS {
				continue
			}
			cut := &Cut{Name: nameND("ChainCoverCut", k, p), RHS: float64(rhs)}
			for i := 0; i < p; i++ {
				section := sortedSections[i]
				for v := 0; v < data.NbNodes(); v++ {
					cut.Ind = append(cut.Ind, int32(cb.model.XIndex(k, section, v)))
					cut.Val = append(cut.Val, 1.0)
				}
			}
			cb.submitUserCut(ctx, cut)
			break
		}
	}
}

// generalizedCoverSeparation probes, for every demand, the node-ranking
// suffixes U and every prefix length, emitting the first globally violated
// restricted cover and returning immediately. One cut per call at most; the
// early return trades cut count for separation speed.
func (cb *Callback) generalizedCoverSeparation(ctx *CallbackContext) {
	data := cb.data
	for k, demand := range data.Inst.Demands {
		nbSections := len(demand.VNFs)
		for probe := 0; probe < data.NbNodes(); probe++ {
			inU := make([]bool, data.NbNodes())
			for v := 0; v < data.NbNodes(); v++ {
				if data.NodeRankPosition(v) >= data.NodeRankPosition(probe) {
					inU[v] = true
				}
			}
			for p := 1; p <= nbSections; p++ {
				rhs := data.VnfLBRestricted(inU, p, demand.Availability)
				if rhs < 0 {
					continue
				}
				sumOverNodes := make([]float64, nbSections)
				for i := 0; i < nbSections; i++ {
					for v := 0; v < data.NbNodes(); v++ {
						if inU[v] {
							sumOverNodes[i] += cb.xSol[k][i][v]
						} else {
							sumOverNodes[i] += float64(rhs) * cb.xSol[k][i][v]
						}
					}
				}
				sortedSections := GetSortedIndexesAsc(sumOverNodes)
				lhs := 0.0
				for i := 0; i < p; i++ {
					lhs += sumOverNodes[sortedSections[i]]
				}
				if lhs >= float64(rhs)-EPS {
					continue
				}
				cut := &Cut{Name: nameND("GenCoverCut", k, p, probe), RHS: float64(rhs)}
				for i := 0; i < p; i++ {
					section := sortedSections[i]
					for v := 0; v < data.NbNodes(); v++ {
						coeff := 1.0
						if !inU[v] {
							coeff = float64(rhs)
						}
						cut.Ind = append(cut.Ind, int32(cb.model.XIndex(k, section, v)))
						cut.Val = append(cut.Val, coeff)
					}
				}
				cb.submitUserCut(ctx, cut)
				return
			}
		}
	}
}

// heuristicAvailabilitySeparation greedily builds, per demand, a placement
// that still misses the required availability; the untouched coefficient-1
// positions then form a candidate cover inequality.
func (cb *Callback) heuristicAvailabilitySeparation(ctx *CallbackContext) {
	data := cb.data
	for k, demand := range data.Inst.Demands {
		nbSections := len(demand.VNFs)
		coeff, sectionAvail := cb.initAvailabilityHeuristic(k)

		chainAvail := ChainAvailability(sectionAvail)
		reqAvail := demand.Availability
		if chainAvail >= reqAvail {
			continue
		}

		deltaAvail := make([][]float64, nbSections)
		for i := range deltaAvail {
			deltaAvail[i] = make([]float64, data.NbNodes())
		}
		for {
			computeDeltaAvailability(data, reqAvail, deltaAvail, sectionAvail, coeff)
			nextSection, nextNode := -1, -1
			bestRatio := -1.0
			for i := 0; i < nbSections; i++ {
				for v := 0; v < data.NbNodes(); v++ {
					if chainAvail+deltaAvail[i][v] < reqAvail && cb.xSol[k][i][v]/deltaAvail[i][v] > bestRatio {
						bestRatio = cb.xSol[k][i][v] / deltaAvail[i][v]
						nextSection = i
						nextNode = v
					}
				}
			}
			if nextSection == -1 || nextNode == -1 {
				break
			}
			chainAvail += deltaAvail[nextSection][nextNode]
			sectionAvail[nextSection] = 1.0 - (1.0-sectionAvail[nextSection])*(1.0-data.Inst.Nodes[nextNode].Availability)
			coeff[nextSection][nextNode] = 0
		}

		lhs := 0.0
		for i := 0; i < nbSections; i++ {
			for v := 0; v < data.NbNodes(); v++ {
				lhs += float64(coeff[i][v]) * cb.xSol[k][i][v]
			}
		}
		if lhs >= 1.0-EPS {
			continue
		}
		cut := &Cut{Name: "heurAvailabilityCut", RHS: 1.0}
		for i := 0; i < nbSections; i++ {
			for v := 0; v < data.NbNodes(); v++ {
				if coeff[i][v] == 1 {
					cut.Ind = append(cut.Ind, int32(cb.model.XIndex(k, i, v)))
					cut.Val = append(cut.Val, 1.0)
				}
			}
		}
		cb.submitUserCut(ctx, cut)
		cb.incrementHeurAvailCuts()
	}
}

// initAvailabilityHeuristic seeds the greedy cover search: positions already
// placed in the fractional point are free (coefficient 0); an empty section
// gets the node with the best value/availability ratio.
func (cb *Callback) initAvailabilityHeuristic(k int) (coeff [][]int, sectionAvail []float64) {
	data := cb.data
	nbSections := len(data.Inst.Demands[k].VNFs)
	coeff = make([][]int, nbSections)
	sectionAvail = make([]float64, nbSections)
	for i := 0; i < nbSections; i++ {
		coeff[i] = make([]int, data.NbNodes())
		var sectionNodes []int
		for v := 0; v < data.NbNodes(); v++ {
			coeff[i][v] = 1
			if cb.xSol[k][i][v] >= 1.0-EPS {
				sectionNodes = append(sectionNodes, v)
				coeff[i][v] = 0
			}
		}
		if len(sectionNodes) == 0 {
			selected := -1
			bestValue := -1.0
			for v := 0; v < data.NbNodes(); v++ {
				ratio := cb.xSol[k][i][v] / data.Inst.Nodes[v].Availability
				if ratio > bestValue {
					bestValue = ratio
					selected = v
				}
			}
			sectionNodes = append(sectionNodes, selected)
			coeff[i][selected] = 0
		}
		sectionAvail[i] = 1.0 - data.FailureProb(sectionNodes)
	}
	return coeff, sectionAvail
}

// computeDeltaAvailability estimates, at the SLA level, the chain availability
// gained by adding each still-open (section,node) position. Free positions get
// a sentinel that disqualifies them.
func computeDeltaAvailability(data *Data, reqAvail float64, deltaAvail [][]float64, sectionAvail []float64, coeff [][]int) {
	for i := range sectionAvail {
		for v := range coeff[i] {
			if coeff[i][v] == 0 {
				deltaAvail[i][v] = 10.0
				continue
			}
			newSectionAvail := 1.0 - (1.0-sectionAvail[i])*(1.0-data.Inst.Nodes[v].Availability)
			newChainAvail := (reqAvail / sectionAvail[i]) * newSectionAvail
			deltaAvail[i][v] = newChainAvail - reqAvail
		}
	}
}

func (cb *Callback) submitUserCut(ctx *CallbackContext, cut *Cut) {
	Log(3, "Adding %s", cut.Name)
	if err := ctx.Host.AddCut(cut.Ind, cut.Val, gurobi.GREATER_EQUAL, cut.RHS); err != nil {
		Log(1, err.Error())
		return
	}
	cb.incrementUserCuts()
}

/*************************************************************************/
/*                          LAZY CONSTRAINTS                             */
/*************************************************************************/

// SectionAvailabilityRecord pairs a section index with its computed
// availability for ascending sorts.
type SectionAvailabilityRecord struct {
	Section      int
	Availability float64
}

// addLazyConstraints checks every demand of an integer candidate against its
// true availability requirement and rejects the candidate with a (possibly
// lifted) nogood over the minimal violating section prefix.
func (cb *Callback) addLazyConstraints(ctx *CallbackContext) {
	cb.loadIntegerSolution(ctx.Sol)
	data := cb.data
	for k, demand := range data.Inst.Demands {
		records := cb.sectionAvailabilities(k)
		sortRecordsAsc(records)

		reqAvail := demand.Availability
		chainAvail := 1.0
		nbSelected := 0
		for index := 0; chainAvail >= reqAvail && index < len(records); index++ {
			chainAvail *= records[index].Availability
			nbSelected++
		}
		if chainAvail >= reqAvail {
			continue
		}
		cb.lift(cb.xSol[k], reqAvail, records, nbSelected)

		cut := &Cut{Name: nameND("AvailNogood", k), RHS: 1.0}
		for s := 0; s < nbSelected; s++ {
			i := records[s].Section
			for v := 0; v < data.NbNodes(); v++ {
				if cb.xSol[k][i][v] < 1.0-EPS {
					cut.Ind = append(cut.Ind, int32(cb.model.XIndex(k, i, v)))
					cut.Val = append(cut.Val, 1.0)
				}
			}
		}
		Log(3, "Rejecting candidate with %s over %d sections", cut.Name, nbSelected)
		if err := ctx.Host.RejectCandidate(cut.Ind, cut.Val, gurobi.GREATER_EQUAL, cut.RHS); err != nil {
			Log(1, err.Error())
			continue
		}
		cb.incrementLazyConstraints()
	}
}

// lift marks further unassigned positions of the violating prefix as placed
// whenever doing so still leaves the chain below its requirement. Every
// position marked here disappears from the nogood being built, strengthening
// it; the candidate itself is untouched, only the snapshot buffer changes.
func (cb *Callback) lift(xSol [][]float64, reqAvail float64, records []SectionAvailabilityRecord, nbSections int) {
	data := cb.data
	for s := 0; s < nbSections; s++ {
		i := records[s].Section
		for v := 0; v < data.NbNodes(); v++ {
			if xSol[i][v] >= 1.0-EPS {
				continue
			}
			futureAvail := 1.0
			futureSectionAvail := records[s].Availability
			for j := 0; j < nbSections; j++ {
				if j == s {
					newFailure := (1.0 - records[j].Availability) * (1.0 - data.Inst.Nodes[v].Availability)
					futureSectionAvail = 1.0 - newFailure
					futureAvail *= futureSectionAvail
				} else {
					futureAvail *= records[j].Availability
				}
			}
			if futureAvail < reqAvail {
				xSol[i][v] = 1.0
				records[s].Availability = futureSectionAvail
			}
		}
	}
}

func (cb *Callback) sectionAvailability(k, i int) float64 {
	failure := 1.0
	for v := 0; v < cb.data.NbNodes(); v++ {
		if cb.xSol[k][i][v] >= 1.0-EPS {
			failure *= 1.0 - cb.data.Inst.Nodes[v].Availability
		}
	}
	return 1.0 - failure
}

func (cb *Callback) sectionAvailabilities(k int) []SectionAvailabilityRecord {
	nbSections := len(cb.data.Inst.Demands[k].VNFs)
	records := make([]SectionAvailabilityRecord, nbSections)
	for i := 0; i < nbSections; i++ {
		records[i] = SectionAvailabilityRecord{Section: i, Availability: cb.sectionAvailability(k, i)}
	}
	return records
}

func sortRecordsAsc(records []SectionAvailabilityRecord) {
	for a := 1; a < len(records); a++ {
		for b := a; b > 0 && records[b].Availability < records[b-1].Availability; b-- {
			records[b], records[b-1] = records[b-1], records[b]
		}
	}
}

/*************************************************************************/
/*                        COUNTERS AND TIMERS                            */
/*************************************************************************/

func (cb *Callback) incrementUserCuts() {
	cb.mu.Lock()
	cb.nbUserCuts++
	cb.mu.Unlock()
}

func (cb *Callback) incrementLazyConstraints() {
	cb.mu.Lock()
	cb.nbLazyConstraints++
	cb.mu.Unlock()
}

func (cb *Callback) incrementHeurAvailCuts() {
	cb.mu.Lock()
	cb.nbHeurAvailCuts++
	cb.mu.Unlock()
}

func (cb *Callback) incrementTime(d time.Duration) {
	cb.mu.Lock()
	cb.timeAll += d
	cb.mu.Unlock()
}

func (cb *Callback) NbUserCuts() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.nbUserCuts
}

func (cb *Callback) NbLazyConstraints() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.nbLazyConstraints
}

func (cb *Callback) NbHeurAvailCuts() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.nbHeurAvailCuts
}

func (cb *Callback) Time() time.Duration {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.timeAll
}
