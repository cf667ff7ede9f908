package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"math/rand"
	"time"

	"git.solver4all.com/azaryc2s/sfcp"
)

var slas sfcp.ArrayStringFlags
var nodes sfcp.ArrayIntFlags
var demands sfcp.ArrayIntFlags
var name *string
var output *string
var count *int
var vnfCount *int
var chainMin *int
var chainMax *int
var availMin *float64
var availMax *float64
var capMin *float64
var capMax *float64
var costMin *float64
var costMax *float64
var bwMin *float64
var bwMax *float64
var slaMin *float64
var slaMax *float64
var delayMax *float64

func main() {
	flag.Var(&slas, "sla", "List of SLA-generation strategies. (ONE_NINE|TWO_NINES|THREE_NINES|RNG)")
	flag.Var(&nodes, "n", "List of number of substrate nodes")
	flag.Var(&demands, "k", "List of number of demands")
	name = flag.String("name", "zarychta", "Name for the instance")
	output = flag.String("outputDir", ".", "Output directory")
	count = flag.Int("count", 1, "Number of instances per combination")
	vnfCount = flag.Int("vnfs", 5, "Number of VNF types in the catalog")
	chainMin = flag.Int("chainMin", 2, "Minimum chain length of a demand")
	chainMax = flag.Int("chainMax", 5, "Maximum chain length of a demand")
	availMin = flag.Float64("availMin", 0.9, "Lowest node availability")
	availMax = flag.Float64("availMax", 0.999, "Highest node availability")
	capMin = flag.Float64("capMin", 50.0, "Lowest node capacity")
	capMax = flag.Float64("capMax", 200.0, "Highest node capacity")
	costMin = flag.Float64("costMin", 1.0, "Lowest node unit cost")
	costMax = flag.Float64("costMax", 10.0, "Highest node unit cost")
	bwMin = flag.Float64("bwMin", 1.0, "Lowest demand bandwidth")
	bwMax = flag.Float64("bwMax", 10.0, "Highest demand bandwidth")
	slaMin = flag.Float64("slaMin", 0.9, "Lowest SLA when using the RNG strategy")
	slaMax = flag.Float64("slaMax", 0.999, "Highest SLA when using the RNG strategy")
	delayMax = flag.Float64("delayMax", 10.0, "Highest arc delay")

	flag.Parse()

	for l := 0; l < *count; l++ {
		rand.Seed(time.Now().UnixNano())
		for i := 0; i < len(nodes); i++ {
			n := nodes[i]
			nodesArray := make([]sfcp.SubstrateNode, n)
			for v := 0; v < n; v++ {
				nodesArray[v] = sfcp.SubstrateNode{
					ID:           v,
					Name:         fmt.Sprintf("node%d", v),
					Capacity:     *capMin + rand.Float64()*(*capMax-*capMin),
					Availability: *availMin + rand.Float64()*(*availMax-*availMin),
					UnitCost:     *costMin + rand.Float64()*(*costMax-*costMin),
				}
			}
			arcsArray := make([]sfcp.Arc, 0, n*(n-1))
			for v := 0; v < n; v++ {
				for w := 0; w < n; w++ {
					if v == w {
						continue
					}
					arcsArray = append(arcsArray, sfcp.Arc{Tail: v, Head: w, Delay: rand.Float64() * (*delayMax)})
				}
			}
			vnfsArray := make([]sfcp.VNF, *vnfCount)
			for f := 0; f < *vnfCount; f++ {
				vnfsArray[f] = sfcp.VNF{ID: f, Name: fmt.Sprintf("vnf%d", f), Consumption: 1.0 + rand.Float64()}
			}
			for j := 0; j < len(demands); j++ {
				m := demands[j]
				for s := 0; s < len(slas); s++ {
					sla := slas[s]
					demandsArray := make([]sfcp.Demand, m)
					for k := 0; k < m; k++ {
						chainLen := *chainMin + rand.Intn(*chainMax-*chainMin+1)
						chain := make([]int, chainLen)
						for c := 0; c < chainLen; c++ {
							chain[c] = rand.Intn(*vnfCount)
						}
						var beta float64
						if sla == "ONE_NINE" {
							beta = 0.9
						} else if sla == "TWO_NINES" {
							beta = 0.99
						} else if sla == "THREE_NINES" {
							beta = 0.999
						} else if sla == "RNG" {
							beta = *slaMin + rand.Float64()*(*slaMax-*slaMin)
						} else {
							log.Fatalf("Unknown SLA strategy: %s", sla)
						}
						demandsArray[k] = sfcp.Demand{
							ID:           k,
							VNFs:         chain,
							Bandwidth:    *bwMin + rand.Float64()*(*bwMax-*bwMin),
							Availability: beta,
							MaxLatency:   rand.Float64() * (*delayMax) * float64(chainLen),
							Source:       rand.Intn(n),
							Target:       rand.Intn(n),
						}
					}

					comment := fmt.Sprintf("%s instance Nr. %d with %d nodes, %d demands and SLAs generated as %s", *name, l, n, m, sla)
					instName := fmt.Sprintf("%s_%d_%d_%s_%d", *name, n, m, sla, l)
					sfcInstance := sfcp.SFCInstance{Name: instName, Comment: comment, Type: "SFC", Nodes: nodesArray, Arcs: arcsArray, Vnfs: vnfsArray, Demands: demandsArray}

					jsonInst, err := json.MarshalIndent(sfcInstance, "", "\t")
					if err != nil {
						log.Fatal(err)
					}

					jsonInst = []byte(sfcp.SanitizeJsonArrayLineBreaks(string(jsonInst)))
					err = ioutil.WriteFile(fmt.Sprintf("%s/%s.json", *output, instName), jsonInst, 0644)
					if err != nil {
						log.Fatal(err)
					}
				}
			}
		}
	}
}
