package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/store"
	"github.com/prepdeck/prepdeck/internal/summary"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	var show string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived interviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.History.HistoryEnabled() {
				return fmt.Errorf("history is disabled in config")
			}

			db, err := store.Open(paths.HistoryDBPath(cfg), log)
			if err != nil {
				return fmt.Errorf("opening history db: %w", err)
			}
			defer db.Close()
			hs := store.NewHistoryStore(db)

			if show != "" {
				return showInterview(hs, show)
			}

			recs, err := hs.List(limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("No archived interviews yet.")
				return nil
			}

			for _, rec := range recs {
				fmt.Printf("%s  %-20s %-24s %-10s %2d turns  %.1f/10 (%s)\n",
					rec.CompletedAt.Format(time.DateOnly), rec.RoleID, rec.Domain,
					rec.Mode, rec.Turns, rec.FinalScore, rec.ID[:8])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "max interviews to list")
	cmd.Flags().StringVar(&show, "show", "", "print the full transcript of one interview by id")
	return cmd
}

func showInterview(hs *store.HistoryStore, id string) error {
	rec, err := hs.Get(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no interview with id %q", id)
	}

	fmt.Printf("%s — %s (%s, %s)\n", rec.CompletedAt.Format(time.DateTime), rec.RoleID, rec.Domain, rec.Mode)
	for _, msg := range rec.Messages {
		switch {
		case msg.Score != nil:
			fmt.Printf("  [%s %.1f/10] %s\n", msg.Kind, *msg.Score, msg.Content)
		default:
			fmt.Printf("  [%s] %s\n", msg.Kind, msg.Content)
		}
	}
	fmt.Printf("Final: %.1f/10 — %s\n", rec.FinalScore, summary.Verdict(rec.FinalScore))
	return nil
}
