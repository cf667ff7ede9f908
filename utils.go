package sfcp

import (
	"fmt"
	"regexp"
	"sort"
)

// GetSortedIndexesAsc returns the indexes of values ordered by increasing value.
func GetSortedIndexesAsc(values []float64) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})
	return idx
}

// nameND formats an indexed constraint name like "NodeCover(0,2,5)".
func nameND(base string, idx ...int) string {
	res := base + "("
	for t, i := range idx {
		if t > 0 {
			res += ","
		}
		res += fmt.Sprintf("%d", i)
	}
	return res + ")"
}

func PrintFloat2DArray(a [][]float64) string {
	res := ""
	for _, x := range a {
		for _, y := range x {
			res += fmt.Sprintf("%.4f,", y)
		}
		res += fmt.Sprintln("")
	}
	return res
}

func SanitizeJsonArrayLineBreaks(json string) string {
	res := fmt.Sprintf("%s", json)
	var numbers = regexp.MustCompile(`\s*([-]?[0-9]+(\.[0-9]+)?),\s+([-]?[0-9]+(\.[0-9]+)?)(,)?`)
	var brackets = regexp.MustCompile(`\[(([-]?[0-9]+(\.[0-9]+)?,)+[-]?[0-9]+(\.[0-9]+)?)\s+\](,?)(\s+)`)
	for numbers.MatchString(res) {
		res = numbers.ReplaceAllString(res, "$1,$3$5")
	}
	for brackets.MatchString(res) {
		res = brackets.ReplaceAllString(res, "[$1]$5$6")
	}
	return res
}

// CheckSolutionValidity audits a finished solution against the node capacities
// and the true (non-approximated) availability requirements.
func CheckSolutionValidity(data *Data, sol *SFCSolution) (bool, string) {
	valid := true
	comment := ""
	used := make([]float64, data.NbNodes())
	for k, demand := range data.Inst.Demands {
		if k >= len(sol.Assignments) {
			return false, fmt.Sprintf("Demand %d has no assignment!", k)
		}
		sectionAvail := make([]float64, len(demand.VNFs))
		for i := range demand.VNFs {
			nodes := sol.Assignments[k][i]
			sectionAvail[i] = data.ParallelAvailability(nodes)
			f := demand.VNFs[i]
			for _, v := range nodes {
				used[v] += demand.Bandwidth * data.Inst.Vnfs[f].Consumption
			}
		}
		if ChainAvailability(sectionAvail) < demand.Availability-EPS {
			comment += fmt.Sprintf("Demand %d reaches availability %f but requires %f! ", k, ChainAvailability(sectionAvail), demand.Availability)
			valid = false
		}
	}
	for v := range data.Inst.Nodes {
		if used[v] > data.Inst.Nodes[v].Capacity+EPS {
			comment += fmt.Sprintf("Node %d processes %f but only has capacity %f! ", v, used[v], data.Inst.Nodes[v].Capacity)
			valid = false
		}
	}
	return valid, comment
}
