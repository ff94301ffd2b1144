package main

import (
	"errors"
	"time"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/settings"
	"github.com/spf13/cobra"
)

func (c *cli) newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		GroupID: "account",
		Short:   "Show or change study reminder settings",
	}
	cmd.AddCommand(c.newSettingsGetCommand(), c.newSettingsSetCommand())
	return cmd
}

func (c *cli) newSettingsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show reminder settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := c.client.requireSession(ctx); err != nil {
				return err
			}
			s, err := c.client.settings.Get(ctx)
			if err != nil {
				return err
			}
			c.printSettings(s)
			return nil
		},
	}
}

func (c *cli) newSettingsSetCommand() *cobra.Command {
	var (
		enabled      bool
		reminderTime string
		dailyGoal    int
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change reminder settings",
		Example: `  flashdeck settings set --enabled --reminder-time 07:30
  flashdeck settings set --daily-goal 40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !flags.Changed("enabled") && !flags.Changed("reminder-time") && !flags.Changed("daily-goal") {
				return errors.New("nothing to change; pass --enabled, --reminder-time or --daily-goal")
			}

			ctx := cmd.Context()
			user, err := c.client.requireSession(ctx)
			if err != nil {
				return err
			}

			s, err := c.client.settings.Get(ctx)
			if err != nil {
				return err
			}
			s.UserID = user.ID
			if flags.Changed("enabled") {
				s.Enabled = enabled
			}
			if flags.Changed("reminder-time") {
				s.ReminderTime = reminderTime
			}
			if flags.Changed("daily-goal") {
				s.DailyGoal = dailyGoal
			}
			s.UpdatedAt = time.Now().UTC()

			if err := c.client.settings.Save(ctx, s); err != nil {
				if errors.Is(err, domain.ErrValidation) {
					return err
				}
				return errors.New("failed to save settings")
			}
			c.printSettings(s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&enabled, "enabled", false, "Turn daily reminders on or off")
	cmd.Flags().StringVar(&reminderTime, "reminder-time", "", "Reminder time of day as HH:MM")
	cmd.Flags().IntVar(&dailyGoal, "daily-goal", 0, "Cards to study per day (0-1000)")
	return cmd
}

func (c *cli) printSettings(s *domain.NotificationSettings) {
	state := "off"
	if s.Enabled {
		state = "on"
	}
	c.printf("Reminders:  %s\n", state)
	c.printf("Time:       %s\n", s.ReminderTime)
	c.printf("Daily goal: %d cards\n", s.DailyGoal)
	if c.client.settings.Mode() == settings.ModeFallback {
		c.println("(saved on this device only; the server could not be reached)")
	}
}
