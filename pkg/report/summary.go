package report

import (
	"io"
	"os"
	"time"

	"github.com/Manu343726/passcheck/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Entry is the outcome of one checked step of a test file
type Entry struct {
	File      string `yaml:"file"`
	Pass      string `yaml:"pass,omitempty"`
	Registers string `yaml:"registers,omitempty"`

	// Case is the 1-based test case number, 0 when the step has no case
	Case int `yaml:"case,omitempty"`

	Status string `yaml:"status"`
	Detail string `yaml:"detail,omitempty"`
}

// Summary collects the entries of a run
type Summary struct {
	Command  string         `yaml:"command"`
	Started  time.Time      `yaml:"started"`
	Finished time.Time      `yaml:"finished"`
	Totals   map[string]int `yaml:"totals"`
	Entries  []Entry        `yaml:"entries"`
}

func NewSummary(command string, started time.Time) *Summary {
	return &Summary{
		Command: command,
		Started: started,
		Totals:  map[string]int{},
	}
}

func (s *Summary) Add(e Entry) {
	s.Entries = append(s.Entries, e)
	s.Totals[e.Status]++
}

// Count returns how many entries have the given status
func (s *Summary) Count(status string) int {
	return s.Totals[status]
}

// Statuses returns the statuses seen so far in a stable order
func (s *Summary) Statuses() []string {
	return utils.SortedKeys(s.Totals)
}

// Encode writes the summary as YAML
func (s *Summary) Encode(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(s); err != nil {
		return err
	}

	return encoder.Close()
}

// WriteFile writes the summary as YAML to path
func (s *Summary) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// ReadSummary loads a summary written by WriteFile
func ReadSummary(path string) (*Summary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Summary
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, err
	}

	return &s, nil
}
