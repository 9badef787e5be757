package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/catalog"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/evaluate"
	"github.com/prepdeck/prepdeck/internal/interview"
	"github.com/prepdeck/prepdeck/internal/questions"
	"github.com/prepdeck/prepdeck/internal/session"
	"github.com/prepdeck/prepdeck/internal/store"
	"github.com/prepdeck/prepdeck/internal/summary"
)

func newInterviewCmd() *cobra.Command {
	var turns int

	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Run an interactive mock interview",
		RunE: func(cmd *cobra.Command, args []string) error {
			if turns > 0 {
				cfg.Interview.MaxTurns = turns
			}
			return runInterview(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&turns, "turns", 0, "questions per interview (overrides config)")
	return cmd
}

// runInterview drives the session phases over stdin until the user quits.
func runInterview(ctx context.Context) error {
	cat, err := buildCatalog()
	if err != nil {
		return err
	}

	var history *store.HistoryStore
	if cfg.History.HistoryEnabled() {
		if err := paths.EnsureDirs(); err != nil {
			return err
		}
		db, err := store.Open(paths.HistoryDBPath(cfg), log)
		if err != nil {
			return fmt.Errorf("opening history db: %w", err)
		}
		defer db.Close()
		history = store.NewHistoryStore(db)
	}

	var m *session.Machine
	m = session.New(cat, log,
		session.WithOnComplete(func(transcript []domain.Message, score float64) {
			if history == nil {
				return
			}
			snap := m.Snapshot()
			_, err := history.Record(store.HistoryRecord{
				RoleID:     snap.RoleID,
				Domain:     snap.Domain,
				Mode:       snap.Mode,
				FinalScore: score,
				Turns:      len(summary.Scores(transcript)),
				Messages:   transcript,
			})
			if err != nil {
				log.Error().Err(err).Msg("failed to archive interview")
			}
		}),
		session.WithOnReset(func() {
			fmt.Println("\nStarting over.")
		}),
	)

	evaluator := evaluate.WithRetry(evaluate.NewHeuristic(), cfg.Interview.EvalRetries, log)
	bank := questions.NewBank()
	in := bufio.NewScanner(os.Stdin)

	for {
		switch m.Phase() {
		case domain.PhaseRoleSelection:
			if done := promptRole(in, m, cat); done {
				return nil
			}
		case domain.PhaseModeSelection:
			if done := promptMode(in, m); done {
				return nil
			}
		case domain.PhaseInterview:
			if done := runTurns(ctx, in, m, bank, evaluator); done {
				return nil
			}
		case domain.PhaseSummary:
			if done := promptSummary(in, m); done {
				return nil
			}
		}
	}
}

func promptRole(in *bufio.Scanner, m *session.Machine, cat *catalog.Catalog) bool {
	roles := cat.Roles()
	fmt.Println("\nChoose your target role:")
	for i, role := range roles {
		fmt.Printf("  %d. %s\n", i+1, role.Title)
	}

	idx, quit := readIndex(in, len(roles))
	if quit {
		return true
	}
	role := roles[idx]

	fmt.Printf("\nSelect a domain for %s:\n", role.Title)
	for i, d := range role.Domains {
		fmt.Printf("  %d. %s\n", i+1, d)
	}

	idx, quit = readIndex(in, len(role.Domains))
	if quit {
		return true
	}

	if err := m.SelectRoleAndDomain(role.ID, role.Domains[idx]); err != nil {
		fmt.Printf("Selection rejected: %v\n", err)
	}
	return false
}

func promptMode(in *bufio.Scanner, m *session.Machine) bool {
	fmt.Println("\nInterview mode: 1. technical  2. behavioral  (or 'back')")

	line, quit := readLine(in)
	if quit {
		return true
	}

	switch line {
	case "back":
		if err := m.GoBack(); err != nil {
			fmt.Printf("Cannot go back: %v\n", err)
		}
	case "1", "technical":
		mustTransition(m.SelectMode(domain.ModeTechnical))
	case "2", "behavioral":
		mustTransition(m.SelectMode(domain.ModeBehavioral))
	default:
		fmt.Println("Pick 1, 2, or 'back'.")
	}
	return false
}

// runTurns runs the interview phase with a fresh engine each entry; a back
// navigation discards the engine along with the in-progress transcript.
func runTurns(ctx context.Context, in *bufio.Scanner, m *session.Machine, bank *questions.Bank, evaluator evaluate.Evaluator) bool {
	engine := interview.NewEngine(m, bank, evaluator, cfg.Interview.MaxTurns, log)
	fmt.Println("\nInterview started. Answer each question; 'end' finishes early, 'back' returns to mode selection.")

	for m.Phase() == domain.PhaseInterview {
		q, done, err := engine.Ask()
		if err != nil {
			fmt.Printf("Interview error: %v\n", err)
			return false
		}
		if done {
			return false
		}

		fmt.Printf("\nQ%d: %s\n> ", engine.Turn()+1, q.Content)
		answer, quit := readLine(in)
		if quit {
			return true
		}
		switch answer {
		case "back":
			mustTransition(m.GoBack())
			return false
		case "end":
			if _, err := engine.Finish(); err != nil {
				fmt.Printf("Could not finish: %v\n", err)
			}
			return false
		}

		fb, err := engine.Submit(ctx, answer)
		for errors.Is(err, domain.ErrEvaluationUnavailable) {
			fmt.Println("Evaluation is unavailable right now. 'retry' to try again, 'end' to finish, 'back' to abandon.")
			line, quit := readLine(in)
			if quit {
				return true
			}
			switch line {
			case "retry":
				fb, err = engine.RetryEvaluation(ctx)
			case "end":
				if _, ferr := engine.Finish(); ferr != nil {
					fmt.Printf("Could not finish: %v\n", ferr)
				}
				return false
			case "back":
				mustTransition(m.GoBack())
				return false
			}
		}
		if err != nil {
			if !errors.Is(err, interview.ErrSuperseded) {
				fmt.Printf("Turn failed: %v\n", err)
			}
			continue
		}

		fmt.Printf("Feedback (%.1f/10): %s\n", *fb.Score, fb.Content)
	}
	return false
}

func promptSummary(in *bufio.Scanner, m *session.Machine) bool {
	snap := m.Snapshot()
	recap := summary.Build(snap.RoleID, snap.Domain, snap.Mode, snap.Transcript, snap.FinalScore)

	fmt.Printf("\n--- Interview summary ---\n")
	fmt.Printf("Role:    %s (%s, %s)\n", recap.RoleID, recap.Domain, recap.Mode)
	fmt.Printf("Turns:   %d\n", recap.Turns)
	for i, s := range recap.Scores {
		fmt.Printf("  Q%d: %.1f/10\n", i+1, s)
	}
	fmt.Printf("Final:   %.1f/10 — %s\n", recap.FinalScore, recap.Verdict)
	fmt.Println("\n'new' starts another interview, anything else quits.")

	line, quit := readLine(in)
	if quit || line != "new" {
		return true
	}
	mustTransition(m.StartNew())
	return false
}

// readLine reads one trimmed line; quit is true on EOF or 'quit'.
func readLine(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", true
	}
	line := strings.TrimSpace(in.Text())
	if line == "quit" {
		return "", true
	}
	return line, false
}

// readIndex reads a 1-based choice within n options.
func readIndex(in *bufio.Scanner, n int) (int, bool) {
	for {
		line, quit := readLine(in)
		if quit {
			return 0, true
		}
		idx, err := strconv.Atoi(line)
		if err == nil && idx >= 1 && idx <= n {
			return idx - 1, false
		}
		fmt.Printf("Enter a number 1-%d (or 'quit'): ", n)
	}
}

// mustTransition logs transition failures that indicate a wiring bug; the
// prompts only offer actions legal for the current phase.
func mustTransition(err error) {
	if err != nil {
		log.Error().Err(err).Msg("unexpected transition failure")
	}
}
