package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// cli carries what every command shares: the lazily opened client and the
// terminal streams.
type cli struct {
	factory clientFactory
	client  *client

	in  *bufio.Reader
	out io.Writer
}

// newRootCommand builds the command tree. The client is opened before any
// subcommand runs and closed after it returns.
func newRootCommand(factory clientFactory, in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{factory: factory, in: bufio.NewReader(in), out: out}

	root := &cobra.Command{
		Use:   "flashdeck",
		Short: "Study flashcards, online or off",
		Long: `flashdeck is a command-line flashcard client.

Cards and categories are cached locally after every successful load, so
studying keeps working without a connection. Study progress survives an
interrupted run and can be resumed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.factory(cmd.Context())
			if err != nil {
				return err
			}
			c.client = cl
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.client == nil {
				return nil
			}
			err := c.client.Close()
			c.client = nil
			return err
		},
	}
	root.SetOut(out)

	root.AddGroup(
		&cobra.Group{ID: "account", Title: "Account:"},
		&cobra.Group{ID: "content", Title: "Cards and study:"},
		&cobra.Group{ID: "sync", Title: "Sync and storage:"},
	)

	root.AddCommand(
		c.newLoginCommand(),
		c.newRegisterCommand(),
		c.newLogoutCommand(),
		c.newWhoamiCommand(),
		c.newCardsCommand(),
		c.newCategoriesCommand(),
		c.newStudyCommand(),
		c.newSyncCommand(),
		c.newStatusCommand(),
		c.newSettingsCommand(),
		c.newCacheCommand(),
	)
	return root
}

func (c *cli) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *cli) println(args ...any) {
	_, _ = fmt.Fprintln(c.out, args...)
}

// prompt prints label and reads one trimmed line. io.EOF is returned once
// input is exhausted.
func (c *cli) prompt(label string) (string, error) {
	c.printf("%s", label)
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
