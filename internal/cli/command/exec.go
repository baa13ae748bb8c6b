package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/kvplay-go/internal/cli/output"
	"github.com/yndnr/kvplay-go/internal/core/domain"
	"github.com/yndnr/kvplay-go/internal/core/service"
	"github.com/yndnr/kvplay-go/internal/protocol/resp"
	"github.com/yndnr/kvplay-go/internal/telemetry/metric"
)

// ExecCommand returns the non-interactive execution command.
func ExecCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Run command lines against a fresh store",
		ArgsUsage: "[LINE...]",
		Description: "Each argument is one command line. Without arguments, lines are read\n" +
			"from --file or from standard input. With --pipe, standard input is read as\n" +
			"RESP2 frames instead of text lines.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read command lines from `FILE`; blank lines and lines starting with # are skipped",
			},
			&cli.BoolFlag{
				Name:  "pipe",
				Usage: "Read RESP2 frames from standard input",
			},
			&cli.Float64Flag{
				Name:  "rate",
				Usage: "Execute at most `N` commands per second (0 = unlimited)",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Exit with status 1 if any command fails",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a progress bar on standard error",
			},
		},
		Action: runExec,
	}
}

// ExecRecord is the outcome of one executed line.
type ExecRecord struct {
	Line   string `json:"line" yaml:"line"`
	Reply  string `json:"reply" yaml:"reply"`
	Failed bool   `json:"failed" yaml:"failed"`
}

func runExec(c *cli.Context) error {
	s, err := GetSettings(c)
	if err != nil {
		return err
	}
	if c.Float64("rate") < 0 {
		return cli.Exit("--rate must not be negative", 2)
	}

	commands, err := execInput(c)
	if err != nil {
		return err
	}

	var limiter *rate.Limiter
	if r := c.Float64("rate"); r > 0 {
		limiter = rate.NewLimiter(rate.Limit(r), 1)
	}

	var bar *output.ProgressBar
	if c.Bool("progress") {
		bar = output.NewProgressBar(errWriter(c), "exec", len(commands))
	}

	reg := metric.NewRegistry()
	interp := service.New()
	format := s.OutputFormat()
	out := writer(c)
	log := s.Logger.Named("exec")

	var (
		store   *domain.Store
		records []ExecRecord
		failed  int
	)
	for _, args := range commands {
		if limiter != nil {
			if err := limiter.Wait(c.Context); err != nil {
				return err
			}
		}

		now := time.Now()
		next, n := service.SweepCount(store, now)
		if n > 0 {
			store = next
			reg.ObserveSweep(n)
			log.Info("expired keys swept", "expired", n)
		}

		start := time.Now()
		res := interp.ExecuteArgs(args, store, now)
		if res.Changed() {
			store = res.Store
		}
		d := time.Since(start)
		reg.ObserveCommand(res.Command, res.Err, d)
		if log.Enabled(slog.LevelDebug) {
			log.Debug("command executed",
				"command", res.Command,
				"failed", res.Failed(),
				"changed", res.Changed(),
				"duration", d,
			)
		}

		line := strings.Join(args, " ")
		if res.Failed() {
			failed++
		}
		if format == output.FormatTable {
			fmt.Fprintf(out, "%s%s\n%s\n", s.Config.Console.Prompt, line, res.Text)
		} else {
			records = append(records, ExecRecord{Line: line, Reply: res.Text, Failed: res.Failed()})
		}
		if bar != nil {
			bar.Step(res.Failed())
		}
	}
	if bar != nil {
		bar.Finish()
	}

	if format != output.FormatTable {
		if err := s.Formatter().Format(out, records); err != nil {
			return err
		}
	}

	if path := s.Config.Metrics.Textfile; path != "" {
		if err := reg.WriteTextfile(path); err != nil {
			return err
		}
	}

	if c.Bool("strict") && failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d commands failed", failed, len(commands)), 1)
	}
	return nil
}

// execInput collects the commands to run, each already split into arguments.
func execInput(c *cli.Context) ([][]string, error) {
	switch {
	case c.Bool("pipe"):
		return readFrames(reader(c))
	case c.NArg() > 0:
		var commands [][]string
		for _, line := range c.Args().Slice() {
			if args := strings.Fields(line); len(args) > 0 {
				commands = append(commands, args)
			}
		}
		return commands, nil
	case c.String("file") != "":
		f, err := os.Open(c.String("file"))
		if err != nil {
			return nil, fmt.Errorf("open command file: %w", err)
		}
		defer f.Close()
		return readLines(f)
	default:
		return readLines(reader(c))
	}
}

// readLines splits text input into commands, skipping blanks and comments.
func readLines(r io.Reader) ([][]string, error) {
	var commands [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		commands = append(commands, strings.Fields(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}
	return commands, nil
}

// readFrames reads RESP2 commands until end of input.
func readFrames(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	var commands [][]string
	for {
		args, err := resp.ReadCommand(br)
		if errors.Is(err, io.EOF) {
			return commands, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read RESP input: %w", err)
		}
		if len(args) > 0 {
			commands = append(commands, args)
		}
	}
}
