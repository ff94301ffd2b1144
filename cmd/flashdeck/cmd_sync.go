package main

import (
	"context"
	"errors"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/phrazzld/flashdeck/internal/events"
	"github.com/phrazzld/flashdeck/internal/offline/cache"
	"github.com/phrazzld/flashdeck/internal/offline/connectivity"
	"github.com/phrazzld/flashdeck/internal/offline/coordinator"
	"github.com/spf13/cobra"
)

func (c *cli) newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		GroupID: "sync",
		Short:   "Synchronize with the server and refresh the local cache",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := c.client.requireSession(ctx); err != nil {
				return err
			}
			c.client.checkConnectivity(ctx)

			unregister := c.client.events.RegisterHandler(events.HandlerFunc(
				func(_ context.Context, e *events.Event) error {
					var state connectivity.State
					if err := e.UnmarshalPayload(&state); err != nil {
						return err
					}
					if state.Status == connectivity.StatusSyncing {
						c.println("Syncing...")
					}
					return nil
				}), events.TypeSyncStatus)
			defer unregister()

			if err := c.client.monitor.ForceSync(ctx); err != nil {
				if errors.Is(err, connectivity.ErrOffline) {
					return errors.New("cannot sync while offline")
				}
				return errors.New("sync failed; try again later")
			}

			view := c.client.coordinator.Refetch(ctx)
			if view.Err != nil {
				return errors.New(view.Message)
			}
			if view.Source != coordinator.SourceRemote {
				c.println("Synced, but the latest data could not be loaded; using the offline copy.")
				return nil
			}

			c.printf("Synced %s and %s\n",
				english.Plural(len(view.Cards), "card", ""),
				english.Plural(len(view.Categories), "category", "categories"))
			c.printf("Last sync: %s\n", humanize.Time(c.client.monitor.LastSyncAt()))
			return nil
		},
	}
}

func (c *cli) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: "sync",
		Short:   "Show connectivity, sync status and the offline cache",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c.client.checkConnectivity(ctx)

			state := c.client.monitor.State()
			if state.Online {
				c.println("Connection:  online")
			} else {
				c.println("Connection:  offline")
			}
			c.printf("Sync status: %s\n", state.Status)

			if user, err := c.client.auth.CurrentUser(ctx); err == nil && user != nil {
				c.printf("Signed in:   %s\n", user.Email)
			} else {
				c.println("Signed in:   no")
			}

			snap, err := c.client.cache.Load(ctx)
			switch {
			case errors.Is(err, cache.ErrNotFound):
				c.println("Cache:       empty")
			case err != nil:
				return err
			default:
				saved := "unknown time"
				if !snap.SavedAt.IsZero() {
					saved = humanize.Time(snap.SavedAt)
				}
				c.printf("Cache:       %s, %s, saved %s\n",
					english.Plural(len(snap.Cards), "card", ""),
					english.Plural(len(snap.Categories), "category", "categories"),
					saved)
			}

			if c.client.progress.Exists(ctx) {
				c.println("Study:       saved progress available (flashdeck study --resume)")
			}
			return nil
		},
	}
}

func (c *cli) newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		GroupID: "sync",
		Short:   "Manage the offline cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the offline copy of your cards and categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.client.cache.Clear(cmd.Context()); err != nil {
				return err
			}
			c.println("Offline cache cleared")
			return nil
		},
	})
	return cmd
}
