package sfcp

import (
	"fmt"
	"strconv"
	"strings"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"
)

const (
	APPROX_NONE     = "NONE"
	APPROX_RELAX    = "RELAX"
	APPROX_RESTRICT = "RESTRICT"

	PLACEMENT_AGG    = "AGG"
	PLACEMENT_DISAGG = "DISAGG"

	CUT_NODE_COVER      = "NODE_COVER"
	CUT_VNF_LB          = "VNF_LB"
	CUT_SECTION_FAILURE = "SECTION_FAILURE"
	CUT_CHAIN_COVER     = "CHAIN_COVER"
	CUT_AVAIL_HEUR      = "AVAIL_HEUR"
)

type SubstrateNode struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Capacity     float64 `json:"capacity"`
	Availability float64 `json:"availability"`
	UnitCost     float64 `json:"unit_cost"`
}

type Arc struct {
	Tail  int     `json:"tail"`
	Head  int     `json:"head"`
	Delay float64 `json:"delay"`
}

type VNF struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Consumption float64 `json:"consumption"`
}

// Demand is a service function chain: one VNF type per section, to be deployed
// between Source and Target with a required end-to-end availability.
type Demand struct {
	ID           int     `json:"id"`
	VNFs         []int   `json:"vnfs"`
	Bandwidth    float64 `json:"bandwidth"`
	Availability float64 `json:"availability"`
	MaxLatency   float64 `json:"max_latency"`
	Source       int     `json:"source"`
	Target       int     `json:"target"`
}

type SFCInstance struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
	Type    string `json:"type"`

	Nodes   []SubstrateNode `json:"nodes"`
	Arcs    []Arc           `json:"arcs"`
	Vnfs    []VNF           `json:"vnf_types"`
	Demands []Demand        `json:"demands"`

	Solution *SFCSolution `json:"solution,omitempty"`
}

type SFCSolution struct {
	Obj     float64 `json:"obj"`
	LBound  float64 `json:"lbound"`
	UBound  float64 `json:"ubound"`
	Optimal bool    `json:"optimal"`

	// Placements[v] lists the VNF types installed on node v;
	// Assignments[k][i] lists the nodes processing section i of demand k.
	Placements  [][]int   `json:"placements"`
	Assignments [][][]int `json:"assignments"`
	ChainAvail  []float64 `json:"chain_avail"`

	AvailViolations   int     `json:"avail_violations"`
	MaxAvailViolation float64 `json:"max_avail_violation"`

	NbUserCuts        int    `json:"user_cuts"`
	NbLazyConstraints int    `json:"lazy_constraints"`
	NbHeurAvailCuts   int    `json:"heur_avail_cuts"`
	CallbackTime      string `json:"callback_time"`

	Time    string  `json:"time"`
	System  SysInfo `json:"system"`
	Comment string  `json:"comment"`
}

// SysInfo saves the basic system information
type SysInfo struct {
	Platform string
	CPU      string
	RAM      string
}

// SFCConfig collects the formulation and engine switches read from the command line.
type SFCConfig struct {
	Cuts          ArrayStringFlags
	Approx        string
	NbBreakpoints int
	Placement     string
	StrongCap     bool
	Lazy          bool
	Heuristic     bool
	Relaxation    bool
	Seed          int64
}

type SFCModel struct {
	GModel *gurobi.Model
	GEnv   *gurobi.Env
	Data   *Data
	Config SFCConfig

	VarNames   []string
	YStart     int
	XStart     int
	XOffset    []int
	SecOffset  []int
	NbSections int
	AStart     int
	VarCount   int

	Callback *Callback
}

// YIndex returns the flat variable index of y[v][f].
func (m *SFCModel) YIndex(v, f int) int {
	return m.YStart + v*m.Data.NbVnfs() + f
}

// XIndex returns the flat variable index of x[k][i][v].
func (m *SFCModel) XIndex(k, i, v int) int {
	return m.XStart + m.XOffset[k] + i*m.Data.NbNodes() + v
}

// AvailIndex returns the flat variable index of secAvail[k][i]. Only valid
// when the model was built with an availability approximation.
func (m *SFCModel) AvailIndex(k, i int) int {
	return m.AStart + m.SecOffset[k] + i
}

// UnavailIndex returns the flat variable index of secUnavail[k][i].
func (m *SFCModel) UnavailIndex(k, i int) int {
	return m.AStart + m.NbSections + m.SecOffset[k] + i
}

// LogAvailIndex returns the flat variable index of logAvail[k][i].
func (m *SFCModel) LogAvailIndex(k, i int) int {
	return m.AStart + 2*m.NbSections + m.SecOffset[k] + i
}

// LogUnavailIndex returns the flat variable index of logUnavail[k][i].
func (m *SFCModel) LogUnavailIndex(k, i int) int {
	return m.AStart + 3*m.NbSections + m.SecOffset[k] + i
}

// HasCut reports whether the given cut family was activated.
func (m *SFCModel) HasCut(name string) bool {
	for _, c := range m.Config.Cuts {
		if c == name {
			return true
		}
	}
	return false
}

type ArrayStringFlags []string

func (f *ArrayStringFlags) String() string {
	return strings.Join(*f, ",")
}

func (f *ArrayStringFlags) Set(value string) error {
	*f = append(*f, value)
	return nil
}

type ArrayIntFlags []int

func (f *ArrayIntFlags) String() string {
	return fmt.Sprint(*f)
}

func (f *ArrayIntFlags) Set(value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*f = append(*f, v)
	return nil
}
