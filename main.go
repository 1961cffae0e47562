// main is the entry point for the scorecard CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/scorecard/cmd"
	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/internal/ledger"
)

func main() {
	// Commands replace this logger once their flags are parsed.
	if err := contract.InitLogger(contract.DefaultLogLevel, contract.DefaultLogFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	ledger.CloseStores()
	contract.SyncLogger()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
