package models

// TaskType categorizes tasks. Color is an opaque display hint.
type TaskType struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}
