package model

import "time"

type ChoreAssignment struct {
	ChoreID string `json:"choreId"`
	ChildID string `json:"childId"`
}

type ChoreChart struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	TemplateID   string            `json:"templateId"`
	UserID       string            `json:"userId,omitempty"`
	Children     []Child           `json:"children"`
	Assignments  []ChoreAssignment `json:"assignments"`
	CustomChores []Chore           `json:"customChores,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// ChildByID returns the child with the given id, or nil.
func (c *ChoreChart) ChildByID(id string) *Child {
	for i := range c.Children {
		if c.Children[i].ID == id {
			return &c.Children[i]
		}
	}
	return nil
}
