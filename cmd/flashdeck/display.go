package main

import (
	"context"
	"errors"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/markup"
	"github.com/phrazzld/flashdeck/internal/offline/coordinator"
)

const offlineHint = "You are offline. Flashcards are available offline once they have been loaded online."

// loadView probes connectivity and runs one coordinator cycle. A view
// without data is returned as an error carrying the user-facing message.
func (c *cli) loadView(ctx context.Context) (coordinator.View, error) {
	c.client.checkConnectivity(ctx)

	view := c.client.coordinator.Refetch(ctx)
	if view.Err != nil {
		msg := view.Message
		if !c.client.monitor.IsOnline() {
			msg += "\n" + offlineHint
		}
		return view, errors.New(msg)
	}

	if view.Source == coordinator.SourceCache {
		c.printf("Showing offline copy saved %s\n\n", humanize.Time(view.CachedAt))
	}
	return view, nil
}

// plain renders stored card markup as terminal text.
func plain(s string) string {
	return markup.Strip(s)
}

func (c *cli) printCard(card *domain.Card, categoryNames map[string]string) {
	c.printf("%s\n", plain(card.Front))
	if card.IsMultipleChoice() {
		for i, opt := range card.Options {
			marker := " "
			if card.CorrectOption != nil && *card.CorrectOption == i {
				marker = "*"
			}
			c.printf("   %s %d. %s\n", marker, i+1, plain(opt))
		}
	} else {
		c.printf("   %s\n", plain(card.Back))
	}

	var meta []string
	if card.CategoryID != nil {
		if name, ok := categoryNames[card.CategoryID.String()]; ok {
			meta = append(meta, name)
		}
	}
	if answered := card.CorrectCount + card.IncorrectCount; answered > 0 {
		meta = append(meta, humanize.Comma(int64(card.CorrectCount))+"/"+humanize.Comma(int64(answered))+" correct")
	}
	if len(meta) > 0 {
		c.printf("   [%s]\n", strings.Join(meta, ", "))
	}
}

func categoryNameIndex(categories []domain.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID.String()] = plain(cat.Name)
	}
	return names
}

func (c *cli) printCategoryTree(nodes []*domain.Category, depth int, counts map[string]int) {
	for _, node := range nodes {
		c.printf("%s%s (%s)\n", strings.Repeat("  ", depth), plain(node.Name),
			humanize.Comma(int64(counts[node.ID.String()])))
		c.printCategoryTree(node.Children, depth+1, counts)
	}
}
