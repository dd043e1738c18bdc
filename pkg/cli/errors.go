package cli

import "fmt"

// ConfigError reports a problem with the settings file or a flag value.
type ConfigError struct {
	Source  string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Source, e.Message)
}

// CommandError wraps a failure inside a subcommand.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(source, message string) *ConfigError {
	return &ConfigError{Source: source, Message: message}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}
