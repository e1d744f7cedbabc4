package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "build a network from a scenario file and step it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(args[0])
		},
	}
}

func runScenario(path string) error {
	scenario, err := loadScenario(path)
	if err != nil {
		return err
	}

	net, err := scenario.build()
	if err != nil {
		return err
	}
	logrus.WithField("neurons", net.N()).Info("network finalized")

	firingsByCycle := make(map[uint64][]int, len(scenario.Firings))
	for _, f := range scenario.Firings {
		firingsByCycle[f.Cycle] = f.Forced
	}
	rewardsByCycle := make(map[uint64]float64, len(scenario.Rewards))
	for _, r := range scenario.Rewards {
		rewardsByCycle[r.Cycle] = r.Reward
	}

	totalFired := 0
	for c := uint64(0); c < scenario.Cycles; c++ {
		fired, err := net.Step(firingsByCycle[c])
		if err != nil {
			return err
		}
		totalFired += len(fired)
		if reward, ok := rewardsByCycle[c]; ok {
			if err := net.ApplyStdp(reward); err != nil {
				return err
			}
		}
	}

	fmt.Printf("ran %d cycles, %d total firings, %s elapsed\n", scenario.Cycles, totalFired, net.ElapsedWallclock())
	return nil
}
