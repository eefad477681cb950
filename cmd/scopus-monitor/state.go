// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scopus-monitor/internal/state"
)

var (
	stateJSON bool
	statePath string
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect the notification ledger",
	Long: `State prints the contents of the notification ledger: how many record
identifiers have been reported so far and when the last digest went out.
The ledger only grows; to start reporting from scratch, delete the file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if statePath != "" {
			cfg.StateFile = statePath
		}

		st, err := state.Load(cfg.StateFile)
		if err != nil {
			return err
		}

		if stateJSON {
			out := struct {
				Count         int      `json:"count"`
				LastReportKST string   `json:"last_report_kst"`
				NotifiedEIDs  []string `json:"notified_eids"`
			}{st.Len(), st.LastReport(), st.EIDs()}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		last := st.LastReport()
		if last == "" {
			last = "(never)"
		}
		fmt.Printf("Ledger:            %s\n", cfg.StateFile)
		fmt.Printf("Notified EIDs:     %d\n", st.Len())
		fmt.Printf("Last report (KST): %s\n", last)
		return nil
	},
}

func init() {
	stateCmd.Flags().BoolVar(&stateJSON, "json", false, "output the full ledger as JSON")
	stateCmd.Flags().StringVar(&statePath, "state-file", "", "path of the notification ledger (default state.json)")

	rootCmd.AddCommand(stateCmd)
}
