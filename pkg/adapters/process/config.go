package process

import (
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single note's command.
const DefaultTimeout = 5 * time.Second

// DefaultMaxRunning bounds the commands alive at once; extra notes are dropped.
const DefaultMaxRunning = 16

// Config describes the external command run for every note.
type Config struct {
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Dir         string            `yaml:"dir" json:"dir"`
	Timeout     time.Duration     `yaml:"timeout" json:"timeout"`
	MaxRunning  int               `yaml:"max_running" json:"max_running"`
}

// Validate checks that the command can be found and fills in defaults.
func (c *Config) Validate() error {
	if c.Command == "" {
		return errors.New("audio command is empty")
	}
	if _, err := exec.LookPath(c.Command); err != nil {
		return fmt.Errorf("audio command %q: %w", c.Command, err)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRunning <= 0 {
		c.MaxRunning = DefaultMaxRunning
	}
	return nil
}
