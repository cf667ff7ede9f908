package sfcp

import (
	"fmt"
	"math"
	"sort"
)

// Data wraps an immutable instance with the precomputed availability ranking
// and the bound helpers the cut engine relies on. Built once, read-only afterwards.
type Data struct {
	Inst *SFCInstance

	availRank []int // node ids sorted by decreasing availability
	rankPos   []int // node id -> position in availRank
}

func NewData(inst *SFCInstance) (*Data, error) {
	for _, n := range inst.Nodes {
		if n.Availability <= 0.0 || n.Availability >= 1.0 {
			return nil, fmt.Errorf("node %d: availability %f outside (0,1)", n.ID, n.Availability)
		}
		if n.Capacity < 0.0 {
			return nil, fmt.Errorf("node %d: negative capacity %f", n.ID, n.Capacity)
		}
	}
	for _, k := range inst.Demands {
		if k.Availability <= 0.0 || k.Availability >= 1.0 {
			return nil, fmt.Errorf("demand %d: required availability %f outside (0,1)", k.ID, k.Availability)
		}
		if len(k.VNFs) == 0 {
			return nil, fmt.Errorf("demand %d: empty VNF sequence", k.ID)
		}
		for _, f := range k.VNFs {
			if f < 0 || f >= len(inst.Vnfs) {
				return nil, fmt.Errorf("demand %d: unknown VNF type %d", k.ID, f)
			}
		}
	}

	d := &Data{Inst: inst}
	d.availRank = make([]int, len(inst.Nodes))
	d.rankPos = make([]int, len(inst.Nodes))
	for v := range inst.Nodes {
		d.availRank[v] = v
	}
	sort.SliceStable(d.availRank, func(a, b int) bool {
		return inst.Nodes[d.availRank[a]].Availability > inst.Nodes[d.availRank[b]].Availability
	})
	for pos, v := range d.availRank {
		d.rankPos[v] = pos
	}
	return d, nil
}

func (d *Data) NbNodes() int   { return len(d.Inst.Nodes) }
func (d *Data) NbVnfs() int    { return len(d.Inst.Vnfs) }
func (d *Data) NbDemands() int { return len(d.Inst.Demands) }

// AvailNodeRank returns the node ids ordered by decreasing availability.
func (d *Data) AvailNodeRank() []int { return d.availRank }

// NodeRankPosition returns the position of node v in the availability ranking.
func (d *Data) NodeRankPosition(v int) int { return d.rankPos[v] }

// FailureProb returns the probability that all nodes of the set fail at once.
func (d *Data) FailureProb(nodes []int) float64 {
	p := 1.0
	for _, v := range nodes {
		p *= 1.0 - d.Inst.Nodes[v].Availability
	}
	return p
}

// ParallelAvailability returns the availability obtained by replicating over the set.
func (d *Data) ParallelAvailability(nodes []int) float64 {
	return 1.0 - d.FailureProb(nodes)
}

// ChainAvailability multiplies the per-section availabilities of a chain.
func ChainAvailability(sectionAvail []float64) float64 {
	a := 1.0
	for _, s := range sectionAvail {
		a *= s
	}
	return a
}

// PlacementCost is the cost of installing VNF type f on node v.
func (d *Data) PlacementCost(v, f int) float64 {
	return d.Inst.Nodes[v].UnitCost * d.Inst.Vnfs[f].Consumption
}

// MinNbNodesWithAvail returns the minimum number of replicas of availability
// avail needed to reach the target beta, i.e. the smallest m with
// 1-(1-avail)^m >= beta.
func (d *Data) MinNbNodesWithAvail(beta, avail float64) int {
	if avail >= beta {
		return 1
	}
	m := math.Log(1.0-beta) / math.Log(1.0-avail)
	return int(math.Ceil(m - EPSILON))
}

// MinNbNodes returns the minimum number of nodes a single section needs to
// reach availability beta, taking nodes in ranking order.
func (d *Data) MinNbNodes(beta float64) int {
	return d.vnfLB(d.availRank, 1, beta)
}

// VnfLB returns the minimum total number of VNF installations over nbSections
// sections such that the chain availability can reach beta. Returns -1 when
// beta is unreachable even with every node replicated in every section.
func (d *Data) VnfLB(beta float64, nbSections int) int {
	return d.vnfLB(d.availRank, nbSections, beta)
}

// VnfLBRestricted is VnfLB evaluated on the node subset marked in inU.
func (d *Data) VnfLBRestricted(inU []bool, nbSections int, beta float64) int {
	rank := make([]int, 0, len(d.availRank))
	for _, v := range d.availRank {
		if inU[v] {
			rank = append(rank, v)
		}
	}
	return d.vnfLB(rank, nbSections, beta)
}

// vnfLB grows the least-available section by its next-ranked node until the
// chain availability reaches beta. rank must be ordered by decreasing
// availability, so each section always receives the best node it lacks.
func (d *Data) vnfLB(rank []int, nbSections int, beta float64) int {
	if nbSections < 1 || len(rank) == 0 {
		return -1
	}
	secFail := make([]float64, nbSections)
	used := make([]int, nbSections)
	for i := range secFail {
		secFail[i] = 1.0
	}
	total := 0
	for {
		avail := 1.0
		for _, f := range secFail {
			avail *= 1.0 - f
		}
		if avail >= beta-EPSILON {
			return total
		}
		worst := -1
		for i := 0; i < nbSections; i++ {
			if used[i] >= len(rank) {
				continue
			}
			if worst < 0 || secFail[i] > secFail[worst] {
				worst = i
			}
		}
		if worst < 0 {
			return -1
		}
		v := rank[used[worst]]
		secFail[worst] *= 1.0 - d.Inst.Nodes[v].Availability
		used[worst]++
		total++
	}
}
