package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tracker-spend/spendtrack/internal/config"
	"github.com/tracker-spend/spendtrack/internal/importlog"
	"github.com/tracker-spend/spendtrack/internal/ingest"
	"github.com/tracker-spend/spendtrack/internal/ledger"
	"github.com/tracker-spend/spendtrack/internal/model"
	"github.com/tracker-spend/spendtrack/internal/openbanking"
)

func newSyncCommand(opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull transactions from the linked bank accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, opts)
			if err != nil {
				return err
			}
			ob := p.cfg.OpenBanking

			end := time.Now().UTC()
			if to != "" {
				if end, err = time.Parse(model.DateLayout, to); err != nil {
					return fmt.Errorf("invalid --to %q: want YYYY-MM-DD", to)
				}
			}
			start := end.AddDate(0, 0, -ob.LookbackDays)
			if from != "" {
				if start, err = time.Parse(model.DateLayout, from); err != nil {
					return fmt.Errorf("invalid --from %q: want YYYY-MM-DD", from)
				}
			}
			if start.After(end) {
				return fmt.Errorf("--from %s is after --to %s", start.Format(model.DateLayout), end.Format(model.DateLayout))
			}

			client, err := openbanking.NewClient(openbanking.Config{
				BaseURL:       ob.BaseURL,
				SecretID:      ob.SecretID,
				SecretKey:     ob.SecretKey,
				RequisitionID: ob.RequisitionID,
			})
			if err != nil {
				return fmt.Errorf("%w (set open_banking in %s or %s and %s)", err, config.FileName, config.EnvSecretID, config.EnvSecretKey)
			}

			cat, err := p.categorizer()
			if err != nil {
				return err
			}
			store, err := ledger.Open(p.root)
			if err != nil {
				return err
			}

			batchID := uuid.NewString()
			ctx := ingest.WithBatchID(p.ctx, batchID)
			sum, syncErr := openbanking.Sync(ctx, client, store, cat, start, end)

			if sum.Inserted > 0 {
				entry := []importlog.Entry{{
					Timestamp:  time.Now().UTC(),
					BatchID:    batchID,
					Source:     string(model.SourceOpenBanking),
					Inserted:   sum.Inserted,
					Duplicates: sum.Duplicates,
					Rejected:   sum.Skipped,
				}}
				hash, err := p.commit(fmt.Sprintf("sync: %d transaction(s)", sum.Inserted))
				if err != nil {
					p.log.Warn().Err(err).Msg("auto-commit failed")
				}
				importlog.SetCommit(entry, hash)
				if err := importlog.Append(p.root, entry); err != nil {
					p.log.Warn().Err(err).Msg("failed to write import log")
				}
			}
			if syncErr != nil {
				return syncErr
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"Account", "Fetched", "Inserted", "Duplicates", "Skipped"})
			for _, a := range sum.Accounts {
				t.AppendRow(table.Row{a.AccountID, a.Fetched, a.Inserted, a.Duplicates, a.Skipped})
			}
			t.AppendFooter(table.Row{"Total", "", sum.Inserted, sum.Duplicates, sum.Skipped})
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first booking date, YYYY-MM-DD (default: lookback_days before --to)")
	cmd.Flags().StringVar(&to, "to", "", "last booking date, YYYY-MM-DD (default today)")

	return cmd
}
