package domain

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category-specific validation errors
var (
	ErrCategoryIDEmpty     = errors.New("category ID cannot be empty")
	ErrCategoryUserIDEmpty = errors.New("category user ID cannot be empty")
	ErrCategoryNameEmpty   = errors.New("category name cannot be empty")
	ErrCategorySelfParent  = errors.New("category cannot be its own parent")
)

// Category groups cards. Categories form a tree through ParentID.
//
// Children is computed by BuildCategoryTree at load time and is never
// persisted or sent over the wire.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Children []*Category `json:"-"`
}

// NewCategory creates a category with a fresh ID and timestamps.
func NewCategory(userID uuid.UUID, name string, parentID *uuid.UUID) (*Category, error) {
	now := time.Now().UTC()
	c := &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCategoryIDEmpty
	}
	if c.UserID == uuid.Nil {
		return ErrCategoryUserIDEmpty
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrCategoryNameEmpty
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return ErrCategorySelfParent
	}
	return nil
}

// BuildCategoryTree links categories to their children and returns the
// roots, sorted by name at every level. A category whose parent is missing
// from the list is treated as a root. The input slice is not modified; the
// returned nodes are copies.
func BuildCategoryTree(categories []Category) []*Category {
	nodes := make(map[uuid.UUID]*Category, len(categories))
	for i := range categories {
		c := categories[i]
		c.Children = nil
		nodes[c.ID] = &c
	}

	var roots []*Category
	for i := range categories {
		node := nodes[categories[i].ID]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortCategories(roots)
	return roots
}

func sortCategories(list []*Category) {
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	for _, c := range list {
		sortCategories(c.Children)
	}
}

// DescendantIDs returns the IDs of the given categories and every category
// beneath them. Unknown IDs are kept as-is so that a filter on a category that
// has since been deleted still matches cards pointing at it.
func DescendantIDs(categories []Category, selected []uuid.UUID) map[uuid.UUID]struct{} {
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, c := range categories {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	out := make(map[uuid.UUID]struct{}, len(selected))
	queue := append([]uuid.UUID(nil), selected...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = struct{}{}
		queue = append(queue, children[id]...)
	}
	return out
}

// FindCategoryByName looks a category up by case-insensitive name.
func FindCategoryByName(categories []Category, name string) (*Category, bool) {
	name = strings.TrimSpace(name)
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			return &categories[i], true
		}
	}
	return nil, false
}
