// Package sessiondump renders an end-of-session summary of everything a
// debug session observed, as YAML, for post-mortem inspection.
package sessiondump

import (
	"gopkg.in/yaml.v2"
)

// ModuleRecord is one loaded-then-possibly-unloaded module.
type ModuleRecord struct {
	BaseAddress uint32 `yaml:"base_address"`
	Path        string `yaml:"path,omitempty"`
	Unloaded    bool   `yaml:"unloaded"`
}

// ThreadRecord is one created-then-possibly-exited thread.
type ThreadRecord struct {
	ID           uint32 `yaml:"id"`
	StartAddress uint32 `yaml:"start_address"`
	Exited       bool   `yaml:"exited"`
	ExitStatus   uint32 `yaml:"exit_status,omitempty"`
}

// ExceptionRecord is one exception event observed during the session.
type ExceptionRecord struct {
	ProcessID   uint32 `yaml:"process_id"`
	ThreadID    uint32 `yaml:"thread_id"`
	Code        uint32 `yaml:"code"`
	Address     uint32 `yaml:"address"`
	FirstChance bool   `yaml:"first_chance"`
}

// ProcessRecord is one debugged process and everything observed in it.
type ProcessRecord struct {
	ID         uint32         `yaml:"id"`
	ImageBase  uint32         `yaml:"image_base"`
	Exited     bool           `yaml:"exited"`
	ExitStatus uint32         `yaml:"exit_status,omitempty"`
	Threads    []ThreadRecord `yaml:"threads,omitempty"`
	Modules    []ModuleRecord `yaml:"modules,omitempty"`
}

// Session is the full summary of a debugging run.
type Session struct {
	Processes  []ProcessRecord   `yaml:"processes"`
	Exceptions []ExceptionRecord `yaml:"exceptions,omitempty"`
}

// Marshal renders s as YAML.
func (s *Session) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
