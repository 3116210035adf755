// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mitchellh/cli"

	"github.com/hashicorp/dataprotect/metamodel"
)

var _ cli.Command = &ValidateCommand{}

type ValidateCommand struct {
	ui    cli.Ui
	flags *flag.FlagSet

	// config is the data protection config location
	config string
}

func (c *ValidateCommand) init() {
	const configUsageText = "Path to the data protection config: an HCL file of protect blocks, or a generated metamodel in JSON or YAML"

	c.flags = flag.NewFlagSet("validate", flag.ContinueOnError)
	c.flags.StringVar(&c.config, "config", "", configUsageText)
	c.flags.SetOutput(io.Discard)
}

// NewValidateCommand produces a new *ValidateCommand, initialized for use in a CLI application.
func NewValidateCommand(ui cli.Ui) *ValidateCommand {
	c := &ValidateCommand{ui: ui}
	c.init()
	return c
}

// ValidateCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func ValidateCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewValidateCommand(ui), nil
	}
}

// Help provides help text to users who pass in the --help flag or who enter invalid options.
func (c *ValidateCommand) Help() string {
	helpText := `Usage: dataprotect validate -config <file>

Loads a data protection config, checks every path in it and prints a summary of the configured types.
`

	return Usage(helpText, c.flags)
}

// Synopsis provides a brief description of the command, for inclusion in the application's primary --help.
func (c *ValidateCommand) Synopsis() string {
	return "Validate a data protection config"
}

// Run executes the command.
func (c *ValidateCommand) Run(args []string) int {
	if err := c.flags.Parse(args); err != nil {
		c.ui.Warn(err.Error())
		c.ui.Warn(c.Help())
		return FlagParseError
	}
	if c.config == "" {
		c.ui.Warn(errors.New("-config is required").Error())
		c.ui.Warn(c.Help())
		return FlagParseError
	}

	l := configureLogging("dataprotect")

	list, err := loadConfig(c.config)
	if err != nil {
		l.Error("Failed to load configuration", "config", c.config, "error", err)
		c.ui.Error(fmt.Sprintf("Config %s is invalid: %s", c.config, err))
		return ConfigError
	}

	var sb strings.Builder
	if err := writeSummary(&sb, c.config, list); err != nil {
		l.Warn("failed to generate config summary", "err", err)
		return OutputError
	}
	c.ui.Output(strings.TrimRight(sb.String(), "\n"))

	return Success
}

// writeSummary prints one line per configured type, in config order.
func writeSummary(writer io.Writer, configFile string, list metamodel.ConfigList) error {
	helpText := fmt.Sprintf("Config %s is valid and describes %d type(s).\n", configFile, len(list.Configs))
	_, err := writer.Write([]byte(helpText))
	if err != nil {
		return err
	}

	t := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, err = fmt.Fprint(t, formatReportLine("type", "revision", "subject id", "sensitive"))
	if err != nil {
		return err
	}

	for _, cfg := range list.Configs {
		revision := cfg.Revision
		if revision == "" {
			revision = "-"
		}
		_, err := fmt.Fprint(t, formatReportLine(
			cfg.Type,
			revision,
			cfg.SubjectID.Path,
			strconv.Itoa(len(cfg.SensitiveData))))
		if err != nil {
			return err
		}
	}

	return t.Flush()
}

func formatReportLine(cells ...string) string {
	return strings.Join(cells, "\t") + "\t\n"
}
