package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"math"
	"os"
	"strings"

	"git.solver4all.com/azaryc2s/sfcp"
)

func main() {
	if len(os.Args) < 2 {
		log.Printf("No arguments passed!")
		return
	}
	dirName := os.Args[1]
	dir, err := ioutil.ReadDir(dirName)
	if err != nil {
		log.Printf("Couldn't open directory %s: %s\n", os.Args[1], err.Error())
		return
	}
	fmt.Printf("Name,Optimal,Time,Obj,LBound,Gap,Nodes,Demands,UserCuts,HeurAvailCuts,LazyConstraints,CallbackTime,AvailViolations,MaxAvailViolation,Comment\n")
	for _, f := range dir {
		fileName := dirName + "/" + f.Name()
		if strings.Contains(fileName, ".json") {
			inst := sfcp.SFCInstance{}
			instStr, err := ioutil.ReadFile(fileName)
			if err != nil {
				log.Printf("Couldn't read %s: %s\n", f.Name(), err.Error())
				return
			}
			err = json.Unmarshal(instStr, &inst)
			if err != nil {
				log.Printf("Couldn't parse %s: %s\n", f.Name(), err.Error())
				return
			}
			if inst.Solution == nil {
				fmt.Printf("No solution for %s\n", inst.Name)
				continue
			}
			sol := *inst.Solution
			data, err := sfcp.NewData(&inst)
			if err != nil {
				log.Printf("Invalid instance %s: %s\n", f.Name(), err.Error())
				return
			}
			solValid, validComment := sfcp.CheckSolutionValidity(data, &sol)
			if !solValid {
				sol.Comment = fmt.Sprintf("%s %s", sol.Comment, validComment)
			}
			gap := math.Round(((sol.Obj-sol.LBound)/sol.LBound)*1000) / 1000.0
			fmt.Printf("%s,%t,%s,%.2f,%.2f,%.4f,%d,%d,%d,%d,%d,%s,%d,%.6f,%s\n", inst.Name, sol.Optimal, sol.Time, sol.Obj, sol.LBound, gap, len(inst.Nodes), len(inst.Demands), sol.NbUserCuts, sol.NbHeurAvailCuts, sol.NbLazyConstraints, sol.CallbackTime, sol.AvailViolations, sol.MaxAvailViolation, sol.Comment)
		}
	}
}
