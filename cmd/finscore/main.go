// Command finscore scores financial statements against a metric policy.
package main

import (
	"os"

	"github.com/finscore/finscore/cmd"
	"github.com/finscore/finscore/internal/contract"
	"github.com/finscore/finscore/internal/iocache"
)

func main() {
	defer iocache.CloseStore()
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.Logger.Error().Err(err).Msg("command failed")
		iocache.CloseStore()
		os.Exit(1)
	}
}
