package chart

import (
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/schedule"
	"github.com/google/uuid"
)

// TemplateSource resolves a chart's template.
type TemplateSource interface {
	Get(id string) (model.ChoreTemplate, bool)
}

// Editor applies validated mutations to chore charts. Every successful
// mutation refreshes UpdatedAt; a failed one leaves the chart untouched.
type Editor struct {
	templates TemplateSource
	now       func() time.Time
	newID     func() string
}

type Option func(*Editor)

func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Editor) {
		e.newID = newID
	}
}

func NewEditor(templates TemplateSource, opts ...Option) *Editor {
	e := &Editor{
		templates: templates,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Draft is the input to Create.
type Draft struct {
	Name         string                  `json:"name"`
	TemplateID   string                  `json:"templateId"`
	Children     []model.Child           `json:"children"`
	Assignments  []model.ChoreAssignment `json:"assignments"`
	CustomChores []model.Chore           `json:"customChores"`
}

// Create validates a draft and builds a new chart from it. Children and
// custom chores without an id get a generated one.
func (e *Editor) Create(d Draft) (*model.ChoreChart, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(d.Children) == 0 {
		return nil, ErrNoChildren
	}
	if len(d.Assignments) == 0 {
		return nil, ErrNoAssignments
	}
	tpl, ok := e.templates.Get(d.TemplateID)
	if !ok {
		return nil, ErrUnknownTemplate
	}
	if len(d.CustomChores) > 0 && !tpl.AllowCustomChores {
		return nil, ErrCustomNotAllowed
	}

	now := e.now().UTC()
	c := &model.ChoreChart{
		Name:       name,
		TemplateID: tpl.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for _, child := range d.Children {
		child, err := e.newChild(child.ID, child.Name, child.Birthdate)
		if err != nil {
			return nil, err
		}
		if c.ChildByID(child.ID) != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("duplicate child id %q", child.ID)}
		}
		c.Children = append(c.Children, child)
	}

	for _, fields := range d.CustomChores {
		chore, err := e.newChore(fields)
		if err != nil {
			return nil, err
		}
		if containsChore(tpl.Chores, chore.ID) || containsChore(c.CustomChores, chore.ID) {
			return nil, &ValidationError{Reason: fmt.Sprintf("duplicate chore id %q", chore.ID)}
		}
		c.CustomChores = append(c.CustomChores, chore)
	}

	pool := Pool(tpl, c)
	for _, a := range d.Assignments {
		if err := checkRefs(c, pool, a.ChoreID, a.ChildID); err != nil {
			return nil, err
		}
		if !IsAssigned(c, a.ChoreID, a.ChildID) {
			c.Assignments = append(c.Assignments, a)
		}
	}

	return c, nil
}

// Pool resolves the chores visible to c.
func (e *Editor) Pool(c *model.ChoreChart) ([]model.Chore, error) {
	tpl, ok := e.templates.Get(c.TemplateID)
	if !ok {
		return nil, ErrUnknownTemplate
	}
	return Pool(tpl, c), nil
}

func (e *Editor) Rename(c *model.ChoreChart, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	c.Name = name
	e.touch(c)
	return nil
}

func (e *Editor) AddChild(c *model.ChoreChart, name, birthdate string) (model.Child, error) {
	child, err := e.newChild("", name, birthdate)
	if err != nil {
		return model.Child{}, err
	}
	c.Children = append(c.Children, child)
	e.touch(c)
	return child, nil
}

// RemoveChild deletes the child and every assignment that references it.
func (e *Editor) RemoveChild(c *model.ChoreChart, childID string) error {
	idx := -1
	for i, child := range c.Children {
		if child.ID == childID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownChild
	}
	c.Children = append(c.Children[:idx:idx], c.Children[idx+1:]...)
	c.Assignments = filterAssignments(c.Assignments, func(a model.ChoreAssignment) bool {
		return a.ChildID != childID
	})
	e.touch(c)
	return nil
}

func (e *Editor) AddCustomChore(c *model.ChoreChart, fields model.Chore) (model.Chore, error) {
	tpl, ok := e.templates.Get(c.TemplateID)
	if !ok {
		return model.Chore{}, ErrUnknownTemplate
	}
	if !tpl.AllowCustomChores {
		return model.Chore{}, ErrCustomNotAllowed
	}
	fields.ID = ""
	chore, err := e.newChore(fields)
	if err != nil {
		return model.Chore{}, err
	}
	c.CustomChores = append(c.CustomChores, chore)
	e.touch(c)
	return chore, nil
}

// RemoveCustomChore deletes a chart-local chore and every assignment that
// references it. Template chores cannot be removed.
func (e *Editor) RemoveCustomChore(c *model.ChoreChart, choreID string) error {
	idx := -1
	for i, ch := range c.CustomChores {
		if ch.ID == choreID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownChore
	}
	c.CustomChores = append(c.CustomChores[:idx:idx], c.CustomChores[idx+1:]...)
	c.Assignments = filterAssignments(c.Assignments, func(a model.ChoreAssignment) bool {
		return a.ChoreID != choreID
	})
	e.touch(c)
	return nil
}

// Toggle flips the assignment of choreID to childID after checking that both
// belong to the chart.
func (e *Editor) Toggle(c *model.ChoreChart, choreID, childID string) (bool, error) {
	pool, err := e.Pool(c)
	if err != nil {
		return false, err
	}
	if err := checkRefs(c, pool, choreID, childID); err != nil {
		return false, err
	}
	assigned := Toggle(c, choreID, childID)
	e.touch(c)
	return assigned, nil
}

func (e *Editor) Rotate(c *model.ChoreChart) error {
	if err := Rotate(c); err != nil {
		return err
	}
	e.touch(c)
	return nil
}

func (e *Editor) touch(c *model.ChoreChart) {
	c.UpdatedAt = e.now().UTC()
}

func (e *Editor) newChild(id, name, birthdate string) (model.Child, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Child{}, &ValidationError{Reason: "child name is required"}
	}
	birthdate = strings.TrimSpace(birthdate)
	if birthdate != "" {
		if _, err := time.Parse(model.DateLayout, birthdate); err != nil {
			return model.Child{}, &ValidationError{Reason: "birthdate must be YYYY-MM-DD"}
		}
	}
	if id == "" {
		id = e.newID()
	}
	return model.Child{ID: id, Name: name, Birthdate: birthdate}, nil
}

func (e *Editor) newChore(fields model.Chore) (model.Chore, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if fields.Name == "" {
		return model.Chore{}, &ValidationError{Reason: "chore name is required"}
	}
	s, err := ValidateSchedule(fields.Schedule)
	if err != nil {
		return model.Chore{}, err
	}
	fields.Schedule = s
	fields.Description = strings.TrimSpace(fields.Description)
	fields.Category = strings.TrimSpace(fields.Category)
	if fields.ID == "" {
		fields.ID = e.newID()
	}
	return fields, nil
}

// ValidateSchedule normalizes s and checks that it carries the field its
// frequency needs. A blank frequency means daily.
func ValidateSchedule(s model.ChoreSchedule) (model.ChoreSchedule, error) {
	if strings.TrimSpace(string(s.Frequency)) == "" {
		s.Frequency = model.FrequencyDaily
	}
	s = schedule.Normalize(s)
	switch s.Frequency {
	case model.FrequencyDaily:
	case model.FrequencyWeekly:
		if len(s.DaysOfWeek) == 0 {
			return s, ErrDaysRequired
		}
	case model.FrequencyMonthly:
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			return s, ErrDayOfMonth
		}
	case model.FrequencyCustom:
		if len(s.SpecificDates) == 0 {
			return s, ErrDatesRequired
		}
		for _, d := range s.SpecificDates {
			if _, err := time.Parse(model.DateLayout, d); err != nil {
				return s, &ValidationError{Reason: fmt.Sprintf("invalid date %q", d)}
			}
		}
	default:
		return s, &ValidationError{Reason: fmt.Sprintf("unknown frequency %q", s.Frequency)}
	}
	return s, nil
}

func checkRefs(c *model.ChoreChart, pool []model.Chore, choreID, childID string) error {
	if c.ChildByID(childID) == nil {
		return ErrUnknownChild
	}
	if !containsChore(pool, choreID) {
		return ErrUnknownChore
	}
	return nil
}

func filterAssignments(as []model.ChoreAssignment, keep func(model.ChoreAssignment) bool) []model.ChoreAssignment {
	out := make([]model.ChoreAssignment, 0, len(as))
	for _, a := range as {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
