/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/gohpcg/InputParameters"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate the stencil system and verify it with the residual collective",
	Long: `Generates the distributed 27-point stencil system over a simulated
process grid, one goroutine per rank, reports the aggregate problem statistics
and verifies the generated right hand side with the inf-norm residual
reduction across all ranks.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		paramFile, _ := cmd.Flags().GetString("parametersFile")
		bp := processInput(cmd, paramFile)
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		hw, _ := cmd.Flags().GetBool("hwcounters")
		rep, err := RunBenchmark(bp, hw)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		rep.Print()
	},
}

func processInput(cmd *cobra.Command, paramFile string) (bp *InputParameters.BenchmarkParameters) {
	var (
		err error
	)
	bp = &InputParameters.BenchmarkParameters{}
	if len(paramFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(paramFile); err != nil {
			panic(err)
		}
		if err = bp.Parse(data); err != nil {
			panic(err)
		}
	} else {
		bp.Title = "gohpcg"
		bp.Nx, _ = cmd.Flags().GetInt("nx")
		bp.Ny, _ = cmd.Flags().GetInt("ny")
		bp.Nz, _ = cmd.Flags().GetInt("nz")
		bp.Npx, _ = cmd.Flags().GetInt("npx")
		bp.Npy, _ = cmd.Flags().GetInt("npy")
		bp.Npz, _ = cmd.Flags().GetInt("npz")
		bp.Threads, _ = cmd.Flags().GetInt("threads")
	}
	if err = bp.Validate(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Test Case"
Nx: 16
Ny: 16
Nz: 16
Npx: 2
Npy: 2
Npz: 2
Threads: 4
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	bp.Print()
	return
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("parametersFile", "F", "", "YAML file with the benchmark parameters, overrides the dimension flags")
	RunCmd.Flags().Int("nx", 16, "local subdomain x dimension")
	RunCmd.Flags().Int("ny", 16, "local subdomain y dimension")
	RunCmd.Flags().Int("nz", 16, "local subdomain z dimension")
	RunCmd.Flags().Int("npx", 1, "process grid x dimension")
	RunCmd.Flags().Int("npy", 1, "process grid y dimension")
	RunCmd.Flags().Int("npz", 1, "process grid z dimension")
	RunCmd.Flags().IntP("threads", "t", 1, "worker threads per simulated process")
	RunCmd.Flags().Bool("profile", false, "write a CPU profile of the run to the working directory")
	RunCmd.Flags().Bool("hwcounters", false, "measure generation with hardware performance counters (linux only)")
}
