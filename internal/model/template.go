package model

type TemplateType string

const (
	TemplateDaily  TemplateType = "daily"
	TemplateWeekly TemplateType = "weekly"
	TemplateCustom TemplateType = "custom"
)

type ChoreTemplate struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Type              TemplateType `json:"type"`
	Chores            []Chore      `json:"chores"`
	AllowCustomChores bool         `json:"allowCustomChores"`
}
