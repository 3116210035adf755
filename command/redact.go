// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"golang.org/x/sync/errgroup"

	"github.com/hashicorp/dataprotect/metamodel"
	"github.com/hashicorp/dataprotect/op"
	"github.com/hashicorp/dataprotect/redact"
	"github.com/hashicorp/dataprotect/redactor"
	"github.com/hashicorp/dataprotect/util"
)

var _ cli.Command = &RedactCommand{}

type RedactCommand struct {
	ui    cli.Ui
	flags *flag.FlagSet

	// config is the data protection config location
	config string

	// typeName selects one type of the config
	typeName string

	// destination is the directory redacted payloads are written to; stdout when empty
	destination string

	// concurrency bounds how many payloads are redacted at once
	concurrency int

	// selects and excludes filter payloads by file name
	selects  []string
	excludes []string

	// archive bundles the destination into a .tar.gz next to it
	archive bool
}

func (c *RedactCommand) init() {
	const (
		configUsageText      = "Path to the data protection config: an HCL file of protect blocks, or a generated metamodel in JSON or YAML"
		typeUsageText        = "Type whose config applies to every payload, e.g. 'example.com/events.OrderPlaced'. May be omitted when the config describes a single type"
		destinationUsageText = "Path to the directory redacted payloads are written to. Payloads are printed to stdout when omitted"
		destUsageText        = "Shorthand for -destination"
		concurrencyUsageText = "Maximum number of payloads redacted at once"
		selectsUsageText     = "Only redact payloads whose name matches one of these comma-separated globs, e.g. 'order_*.json'. A payload found in a directory is named by its path relative to that directory"
		excludesUsageText    = "Skip payloads whose name matches one of these comma-separated globs"
		archiveUsageText     = "Bundle the destination directory, including its Manifest.json, into a .tar.gz next to it. Requires -destination"
	)

	// flag.ContinueOnError allows flag.Parse to return an error if one comes up, rather than doing an `os.Exit(2)`
	// on its own.
	c.flags = flag.NewFlagSet("redact", flag.ContinueOnError)

	c.flags.StringVar(&c.config, "config", "", configUsageText)
	c.flags.StringVar(&c.typeName, "type", "", typeUsageText)
	c.flags.StringVar(&c.destination, "destination", "", destinationUsageText)
	c.flags.StringVar(&c.destination, "dest", "", destUsageText)
	c.flags.IntVar(&c.concurrency, "concurrency", runtime.NumCPU(), concurrencyUsageText)
	c.flags.Var(&CSVFlag{&c.selects}, "select", selectsUsageText)
	c.flags.Var(&CSVFlag{&c.excludes}, "exclude", excludesUsageText)
	c.flags.BoolVar(&c.archive, "archive", false, archiveUsageText)

	// When invalid flags are provided, Go will output a usage message of its own. If we direct our flag set to
	// io.Discard, it will effectively be hidden, allowing us to print our own Help message upon failure.
	c.flags.SetOutput(io.Discard)
}

// NewRedactCommand produces a new *RedactCommand, initialized for use in a CLI application.
func NewRedactCommand(ui cli.Ui) *RedactCommand {
	c := &RedactCommand{ui: ui}
	c.init()
	return c
}

// RedactCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func RedactCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewRedactCommand(ui), nil
	}
}

// Help provides help text to users who pass in the --help flag or who enter invalid options.
func (c *RedactCommand) Help() string {
	helpText := `Usage: dataprotect redact -config <file> [options] <payload or directory>...

Redacts JSON event payloads according to a data protection config. Directories are searched for *.json files,
and their payloads keep their path relative to the directory in -destination.
`

	return Usage(helpText, c.flags)
}

// Synopsis provides a brief description of the command, for inclusion in the application's primary --help.
func (c *RedactCommand) Synopsis() string {
	return "Redact sensitive data in JSON event payloads"
}

// Run executes the command.
func (c *RedactCommand) Run(args []string) int {
	if err := c.parseFlags(args); err != nil {
		// Output the specific error to help the user understand what went wrong.
		c.ui.Warn(err.Error())
		// Since there was an issue in input, let's show our Help to try and assist the user.
		c.ui.Warn(c.Help())
		return FlagParseError
	}

	l := configureLogging("dataprotect")

	list, err := loadConfig(c.config)
	if err != nil {
		l.Error("Failed to load configuration", "config", c.config, "error", err)
		return ConfigError
	}
	cfg, err := selectConfig(list, c.typeName)
	if err != nil {
		l.Error("Failed to select configuration", "config", c.config, "error", err)
		return ConfigError
	}
	l.Debug("selected config", "type", cfg.Type, "revision", cfg.Revision, "sensitive", len(cfg.SensitiveData))

	inputs, err := util.ExpandInputs(c.flags.Args(), "*.json")
	if err != nil {
		l.Error("Failed to find payloads", "error", err)
		return SetupError
	}

	dest := ""
	if c.destination != "" {
		dest, err = util.ExpandPath(c.destination)
		if err != nil {
			l.Error("Failed to expand destination", "destination", c.destination, "error", err)
			return SetupError
		}
		if err = os.MkdirAll(dest, 0755); err != nil {
			l.Error("Failed to create destination", "destination", dest, "error", err)
			return SetupError
		}
	}

	runners, err := c.runners(l, cfg, inputs)
	if err != nil {
		l.Error("Failed to filter payloads", "error", err)
		return FlagParseError
	}

	start := time.Now()
	ops := runAll(l, runners, c.concurrency)
	end := time.Now()

	failed := false
	for _, o := range ops {
		if o.Status != op.Success {
			failed = true
			l.Error("Failed to redact payload", "payload", o.Identifier, "error", o.Error)
			continue
		}
		if dest == "" {
			c.ui.Output(string(o.Result))
			continue
		}
		out := filepath.Join(dest, filepath.FromSlash(o.Identifier))
		if err := util.WriteFile(o.Result, out); err != nil {
			l.Error("Failed to write redacted payload", "file", out, "error", err)
			return OutputError
		}
	}

	if dest != "" {
		m, err := newManifest(c.config, cfg, start, end, ops)
		if err != nil {
			l.Error("Failed to build manifest", "error", err)
			return OutputError
		}
		mFile := filepath.Join(dest, ManifestFile)
		if err := util.WriteJSON(m, mFile); err != nil {
			l.Error("Failed to write manifest", "file", mFile, "error", err)
			return OutputError
		}
		l.Debug("Created Manifest.json file", "dest", mFile)

		location := dest
		if c.archive {
			location = filepath.Clean(dest) + ".tar.gz"
			if err := util.TarGz(dest, location); err != nil {
				l.Error("Failed to archive destination", "archive", location, "error", err)
				return OutputError
			}
			l.Info("Compressed and archived output file", "dest", location)
		}

		var sb strings.Builder
		if err := writeRunSummary(&sb, location, ops); err != nil {
			l.Warn("failed to generate run summary", "err", err)
			return OutputError
		}
		c.ui.Output(strings.TrimRight(sb.String(), "\n"))
	}

	if failed {
		return RunError
	}
	return Success
}

func (c *RedactCommand) parseFlags(args []string) error {
	if err := c.flags.Parse(args); err != nil {
		return err
	}
	if c.config == "" {
		return errors.New("-config is required")
	}
	if c.flags.NArg() == 0 {
		return errors.New("at least one payload or directory is required")
	}
	if c.concurrency < 1 {
		return fmt.Errorf("-concurrency must be at least 1, got %d", c.concurrency)
	}
	if c.archive && c.destination == "" {
		return errors.New("-archive requires -destination")
	}
	return nil
}

// runners builds one payloadRunner per input and applies -select and -exclude.
func (c *RedactCommand) runners(l hclog.Logger, cfg metamodel.Config, inputs []util.Input) ([]op.Runner, error) {
	p, err := redactor.NewPayloadRedactor(cfg, redact.WithLogger(l.Named("redact")))
	if err != nil {
		return nil, err
	}

	runners := make([]op.Runner, len(inputs))
	for i, in := range inputs {
		runners[i] = payloadRunner{redactor: p, path: in.Path, name: in.Name}
	}

	if len(c.selects) > 0 {
		if runners, err = op.Select(c.selects, runners); err != nil {
			return nil, err
		}
	}
	if len(c.excludes) > 0 {
		if runners, err = op.Exclude(c.excludes, runners); err != nil {
			return nil, err
		}
	}
	return runners, nil
}

// runAll runs every runner, at most limit at a time. Results keep the order of runners.
func runAll(l hclog.Logger, runners []op.Runner, limit int) []op.Op {
	ops := make([]op.Op, len(runners))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, r := range runners {
		i, r := i, r
		g.Go(func() error {
			ops[i] = r.Run()
			l.Trace("ran op", "op", ops[i].Identifier, "status", ops[i].Status)
			return nil
		})
	}
	_ = g.Wait()
	return ops
}

var _ op.Runner = payloadRunner{}

// payloadRunner redacts one payload file. name is unique within a run and names the output file.
type payloadRunner struct {
	redactor redactor.Redactor
	path     string
	name     string
}

func (r payloadRunner) ID() string {
	return r.name
}

func (r payloadRunner) Run() op.Op {
	b, err := redactFile(r.redactor, r.path)
	if err != nil {
		return op.New(r.ID(), nil, op.Fail, fmt.Errorf("file %s: %w", r.path, err))
	}
	return op.New(r.ID(), b, op.Success, nil)
}

func redactFile(r redactor.Redactor, file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rr, err := r.Redact(f)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(rr)
}

// writeRunSummary prints the status counts of a run.
func writeRunSummary(writer io.Writer, dest string, ops []op.Op) error {
	helpText := fmt.Sprintf("The redaction run has completed. Redacted payloads can be found in %s.\n", dest)
	_, err := writer.Write([]byte(helpText))
	if err != nil {
		return err
	}

	counts, err := op.StatusCounts(ops)
	if err != nil {
		return err
	}

	t := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, err = fmt.Fprint(t, formatReportLine(string(op.Success), string(op.Fail), "total"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(t, formatReportLine(
		strconv.Itoa(counts[op.Success]),
		strconv.Itoa(counts[op.Fail]),
		strconv.Itoa(len(ops))))
	if err != nil {
		return err
	}

	return t.Flush()
}
