package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/offline/coordinator"
	"github.com/phrazzld/flashdeck/internal/offline/progress"
	"github.com/phrazzld/flashdeck/internal/study"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	saveProgressTimeout = 5 * time.Second
	reconnectNotice     = "Back online. Your cards were refreshed for the next session."
)

// studyOutcome is how an interactive run ended.
type studyOutcome int

const (
	outcomeFinished studyOutcome = iota
	outcomeQuit
	outcomeInterrupted
)

var errQuit = errors.New("quit")

func (c *cli) newStudyCommand() *cobra.Command {
	var (
		categoryNames []string
		resume        bool
	)

	cmd := &cobra.Command{
		Use:     "study",
		GroupID: "content",
		Short:   "Study your cards in random order",
		Long: `Study your cards in random order.

Interrupting a run with Ctrl+C saves your progress; the next run offers to
pick it up again. Entering q ends the run and discards the progress.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			input := newLineFeed(c.in)

			session, err := c.startOrResume(ctx, input, categoryNames, resume)
			if err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				return err
			}

			stopWatching := c.watchConnectivity(ctx, input)
			outcome := c.runStudy(ctx, session, input)
			stopWatching()

			switch outcome {
			case outcomeInterrupted:
				return c.saveProgress(session)
			case outcomeQuit:
				c.println("\nSession ended.")
			case outcomeFinished:
				c.println("\nSession complete!")
			}

			if err := c.client.progress.Clear(context.WithoutCancel(ctx)); err != nil {
				c.client.logger.Warn("failed to clear study progress", slog.String("error", err.Error()))
			}
			c.printSummary(session)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&categoryNames, "category", "c", nil, "Only study these categories and their subcategories (repeatable)")
	cmd.Flags().BoolVarP(&resume, "resume", "r", false, "Resume saved progress without asking")
	return cmd
}

// startOrResume returns saved progress when the user wants it, otherwise a
// freshly shuffled session.
func (c *cli) startOrResume(ctx context.Context, input *lineFeed, categoryNames []string, resume bool) (*domain.StudySession, error) {
	if c.client.progress.Exists(ctx) {
		saved, err := c.client.progress.Load(ctx)
		switch {
		case err == nil:
			answered := saved.Correct + saved.Incorrect
			use := resume
			if !use {
				c.printf("You have an unfinished session (%d of %s answered).\n",
					answered, english.Plural(len(saved.Cards), "card", ""))
				answer, err := input.ask(ctx, c, "Resume it? [Y/n] ")
				if err != nil {
					return nil, err
				}
				use = answer == "" || strings.HasPrefix(strings.ToLower(answer), "y")
			}
			if use {
				c.printf("Resuming at card %d of %d\n\n", saved.CurrentIndex+1, len(saved.Cards))
				return saved, nil
			}
		case errors.Is(err, progress.ErrNotFound):
		default:
			return nil, err
		}
	} else if resume {
		c.println("No saved progress; starting a new session.")
	}

	view, err := c.loadView(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := resolveCategories(view.Categories, categoryNames)
	if err != nil {
		return nil, err
	}

	session, err := c.client.engine.Start(view.Cards, view.Categories, filter)
	if errors.Is(err, study.ErrNoCards) {
		return nil, errors.New("no flashcards to study")
	}
	if err != nil {
		return nil, err
	}
	c.printf("Studying %s. Enter q to quit.\n\n", english.Plural(len(session.Cards), "card", ""))
	return session, nil
}

// watchConnectivity probes the API in the background until the returned
// function is called. A reconnect refreshes the cached cards through the
// coordinator and queues a notice for the next prompt.
func (c *cli) watchConnectivity(ctx context.Context, input *lineFeed) (stop func()) {
	unsubscribe := c.client.coordinator.Subscribe(func(v coordinator.View) {
		if v.Loading || v.Err != nil || v.Source != coordinator.SourceRemote {
			return
		}
		input.notify(reconnectNotice)
	})

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.client.detector.Run(gctx) })

	return func() {
		cancel()
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			c.client.logger.Warn("connectivity detector stopped", slog.String("error", err.Error()))
		}
		unsubscribe()
	}
}

// runStudy drives the question loop until the deck is done, the user quits
// or input stops.
func (c *cli) runStudy(ctx context.Context, session *domain.StudySession, input *lineFeed) studyOutcome {
	for !session.Finished() {
		card, err := study.Current(session)
		if err != nil {
			return outcomeFinished
		}

		c.printf("Card %d of %d\n", session.CurrentIndex+1, len(session.Cards))
		c.printf("  %s\n", plain(card.Front))

		if card.IsMultipleChoice() {
			err = c.askMultipleChoice(ctx, session, card, input)
		} else {
			err = c.askSimple(ctx, session, card, input)
		}
		switch {
		case errors.Is(err, errQuit):
			return outcomeQuit
		case err != nil:
			return outcomeInterrupted
		}
		c.println()
	}
	return outcomeFinished
}

func (c *cli) askMultipleChoice(ctx context.Context, session *domain.StudySession, card *domain.Card, input *lineFeed) error {
	for i, opt := range card.Options {
		c.printf("    %d. %s\n", i+1, plain(opt))
	}

	for {
		answer, err := input.ask(ctx, c, fmt.Sprintf("Answer [1-%d]: ", len(card.Options)))
		if err != nil {
			return err
		}
		choice, convErr := strconv.Atoi(answer)
		if convErr != nil || choice < 1 || choice > len(card.Options) {
			c.println("Enter one of the option numbers.")
			continue
		}

		correct, err := study.AnswerOption(session, choice-1)
		if err != nil {
			return err
		}
		if correct {
			c.println("Correct!")
		} else if card.CorrectOption != nil {
			c.printf("Not quite. The answer is %d. %s\n", *card.CorrectOption+1, plain(card.Options[*card.CorrectOption]))
		}
		return nil
	}
}

func (c *cli) askSimple(ctx context.Context, session *domain.StudySession, card *domain.Card, input *lineFeed) error {
	if _, err := input.ask(ctx, c, "Press Enter to reveal the answer "); err != nil {
		return err
	}
	c.printf("  %s\n", plain(card.Back))

	for {
		answer, err := input.ask(ctx, c, "Did you know it? [y/n] ")
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return study.RecordAnswer(session, true)
		case "n", "no":
			return study.RecordAnswer(session, false)
		default:
			c.println("Enter y or n.")
		}
	}
}

func (c *cli) saveProgress(session *domain.StudySession) error {
	ctx, cancel := context.WithTimeout(context.Background(), saveProgressTimeout)
	defer cancel()

	if err := c.client.progress.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save study progress: %w", err)
	}
	c.println("\nProgress saved. Run 'flashdeck study' to pick up where you left off.")
	return nil
}

func (c *cli) printSummary(session *domain.StudySession) {
	sum := study.Summarize(session, time.Now())
	c.printf("Correct:   %d\n", sum.Correct)
	c.printf("Incorrect: %d\n", sum.Incorrect)
	if sum.Remaining > 0 {
		c.printf("Skipped:   %d\n", sum.Remaining)
	}
	if sum.Correct+sum.Incorrect > 0 {
		c.printf("Accuracy:  %.0f%%\n", sum.Accuracy*100)
	}
	if sum.Elapsed > 0 {
		c.printf("Time:      %s\n", sum.Elapsed.Round(time.Second))
	}
}

// lineFeed reads input lines in the background so a prompt can be abandoned
// when a signal arrives. Notices queued from other goroutines are printed by
// the prompting goroutine.
type lineFeed struct {
	lines   <-chan string
	notices chan string
}

func newLineFeed(r interface {
	ReadString(delim byte) (string, error)
}) *lineFeed {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := r.ReadString('\n')
			if line != "" || err == nil {
				lines <- strings.TrimSpace(line)
			}
			if err != nil {
				return
			}
		}
	}()
	return &lineFeed{lines: lines, notices: make(chan string, 4)}
}

// notify queues msg for the current or next prompt. A full queue drops it.
func (f *lineFeed) notify(msg string) {
	select {
	case f.notices <- msg:
	default:
	}
}

// ask prints label and waits for the next line. It returns errQuit for q,
// io.EOF when input ends and the context error on cancellation.
func (f *lineFeed) ask(ctx context.Context, c *cli, label string) (string, error) {
	for pending := true; pending; {
		select {
		case msg := <-f.notices:
			c.printf("%s\n", msg)
		default:
			pending = false
		}
	}

	c.printf("%s", label)
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case msg := <-f.notices:
			c.printf("\n%s\n%s", msg, label)
		case line, ok := <-f.lines:
			if !ok {
				return "", io.EOF
			}
			if strings.EqualFold(line, "q") {
				return "", errQuit
			}
			return line, nil
		}
	}
}
