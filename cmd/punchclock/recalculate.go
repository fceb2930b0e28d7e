package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/config"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/report"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/repository/postgresql"
	timeCardService "github.com/cmlabs-hris/punchclock-backend-go/internal/service/timecard"
	"github.com/spf13/cobra"
)

type recalculateOptions struct {
	CompanyID   string
	JobIDs      []string
	ReportPath  string
	FailOnError bool
}

func newRecalculateCmd() *cobra.Command {
	var opts recalculateOptions

	cmd := &cobra.Command{
		Use:   "recalculate --company <id> [--job <id>]...",
		Short: "Recalculate adjusted punches, total and overtime hours for closed time cards.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 2})
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer db.Close()

			svc := timeCardService.NewRecalculationService(
				postgresql.NewTimeCardRepository(db),
				postgresql.NewJobShiftConfigRepository(db),
				postgresql.NewPunchClockSettingsRepository(db),
			)

			result, err := svc.Run(ctx, timecard.RecalculateRequest{CompanyID: opts.CompanyID, JobIDs: opts.JobIDs})
			if err != nil {
				return err
			}

			printResult(cmd.OutOrStdout(), result)

			if opts.ReportPath != "" {
				if err := report.SaveRecalculation(opts.ReportPath, result); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", opts.ReportPath)
			}

			if failed := result.Count(timecard.OutcomeFailed); opts.FailOnError && failed > 0 {
				return fmt.Errorf("%d time card(s) failed to recalculate", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.CompanyID, "company", "c", "", "Company ID (required)")
	cmd.Flags().StringSliceVarP(&opts.JobIDs, "job", "j", nil, "Restrict to these job IDs (repeatable)")
	cmd.Flags().StringVarP(&opts.ReportPath, "report", "r", "", "Write an xlsx report of the run to this path")
	cmd.Flags().BoolVar(&opts.FailOnError, "fail-on-error", false, "Exit non-zero when any time card fails")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func printResult(w io.Writer, result timecard.BatchResult) {
	fmt.Fprintf(w, "Company:          %s\n", result.CompanyID)
	fmt.Fprintf(w, "Total processed:  %d\n", result.TotalProcessed())
	fmt.Fprintf(w, "Updated:          %d\n", result.Count(timecard.OutcomeUpdated))
	fmt.Fprintf(w, "Skipped:          %d\n", result.Count(timecard.OutcomeSkipped))
	fmt.Fprintf(w, "Failed:           %d\n", result.Count(timecard.OutcomeFailed))

	errs := result.Errors()
	if len(errs) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nTIMECARD\tERROR")
	for _, e := range errs {
		fmt.Fprintf(tw, "%s\t%s\n", e.TimeCardID, e.Error)
	}
	tw.Flush()
}
