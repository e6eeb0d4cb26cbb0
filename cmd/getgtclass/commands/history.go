package commands

import (
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ktran04/getgtclass/lib/journal"
	"github.com/ktran04/getgtclass/lib/serviceutil"
)

var historyCRN *string

func init() {
	historyCRN = historyCmd.Flags().String("crn", "", "Only show attempts for this CRN.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--crn <crn>]",
	Short: "Show past submission attempts from the journal.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg.Journal.Database == "" {
			serviceutil.Fatal("no journal configured", os.ErrNotExist)
		}

		database, err := journal.Open(cfg.Journal.Database)
		if err != nil {
			serviceutil.Fatal("failed to open journal", err)
		}
		defer database.Close()

		j := journal.New(database)

		var attempts []journal.Attempt
		if *historyCRN != "" {
			attempts, err = j.ListCRN(cmd.Context(), *historyCRN)
		} else {
			attempts, err = j.List(cmd.Context())
		}
		if err != nil {
			serviceutil.Fatal("failed to list attempts", err)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Time", "CRN", "Outcome", "Reason", "Messages"})
		for _, a := range attempts {
			t.AppendRow(table.Row{
				a.AttemptedAt.Format(time.DateTime),
				a.CRN,
				a.Outcome,
				a.Reason,
				strings.Join(a.Messages, " | "),
			})
		}
		t.Render()
	},
}
