// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

// Success indicates a successful command execution.
const Success int = 0

// The following error group is intended for issues within the command's execution.
const (
	// FlagParseError indicates that a command was unable to successfully parse the flags/arguments provided to it.
	FlagParseError int = iota + 16

	// ConfigError indicates that the data protection config could not be loaded or is invalid.
	ConfigError

	// RunError indicates that a payload could not be read or redacted.
	RunError

	// OutputError indicates an error writing redacted payloads or a summary.
	OutputError

	// SetupError is returned when prerequisites for a run cannot be set up; e.g. the destination directory.
	SetupError
)
