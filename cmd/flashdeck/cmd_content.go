package main

import (
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/spf13/cobra"
)

func (c *cli) newCardsCommand() *cobra.Command {
	var categoryName string

	cmd := &cobra.Command{
		Use:     "cards",
		GroupID: "content",
		Short:   "List your flashcards",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := c.loadView(cmd.Context())
			if err != nil {
				return err
			}

			cards := view.Cards
			if categoryName != "" {
				ids, err := resolveCategories(view.Categories, []string{categoryName})
				if err != nil {
					return err
				}
				scope := domain.DescendantIDs(view.Categories, ids)
				filtered := make([]domain.Card, 0, len(cards))
				for _, card := range cards {
					if card.InCategory(scope) {
						filtered = append(filtered, card)
					}
				}
				cards = filtered
			}

			if len(cards) == 0 {
				c.println("No flashcards yet.")
				return nil
			}

			names := categoryNameIndex(view.Categories)
			for i := range cards {
				c.printCard(&cards[i], names)
			}
			c.printf("\n%s\n", english.Plural(len(cards), "card", ""))
			return nil
		},
	}
	cmd.Flags().StringVarP(&categoryName, "category", "c", "", "Only show cards in this category and its subcategories")
	return cmd
}

func (c *cli) newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		GroupID: "content",
		Short:   "Show your categories as a tree",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := c.loadView(cmd.Context())
			if err != nil {
				return err
			}
			if len(view.Categories) == 0 {
				c.println("No categories yet.")
				return nil
			}

			counts := make(map[string]int)
			for _, card := range view.Cards {
				if card.CategoryID != nil {
					counts[card.CategoryID.String()]++
				}
			}
			c.printCategoryTree(domain.BuildCategoryTree(view.Categories), 0, counts)
			return nil
		},
	}
}

// resolveCategories maps category names to IDs, case-insensitively.
func resolveCategories(categories []domain.Category, names []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		cat, ok := domain.FindCategoryByName(categories, name)
		if !ok {
			return nil, fmt.Errorf("no category named %q", name)
		}
		ids = append(ids, cat.ID)
	}
	return ids, nil
}
