package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v2"

	"github.com/tuannm99/novaquery/internal"
	"github.com/tuannm99/novaquery/sqlclient"
)

func main() {
	app := &cli.App{
		Name:  "novaquery",
		Usage: "interactive client for novaquery",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a YAML config file"},
			&cli.StringFlag{Name: "addr", Usage: "server address (overrides server.addr)"},
			&cli.DurationFlag{Name: "timeout", Value: 3 * time.Second, Usage: "dial timeout"},
			&cli.StringFlag{Name: "history", Usage: "history file path"},
			&cli.StringFlag{Name: "c", Usage: "execute one statement and exit"},
			&cli.BoolFlag{Name: "local", Usage: "run an embedded executor instead of dialing a server"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := internal.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	internal.SetupLogging(os.Stderr, cfg.Server.Debug)

	addr := cfg.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	var ex execer
	if c.Bool("local") {
		ex = newLocalExec(cfg.Executor.StatementCache)
		addr = "embedded"
	} else {
		cl, err := sqlclient.DialContext(c.Context, addr, c.Duration("timeout"))
		if err != nil {
			return err
		}
		defer func() { _ = cl.Close() }()
		ex = cl
	}

	if sql := strings.TrimSpace(c.String("c")); sql != "" {
		res, err := ex.Exec(sql)
		if err != nil {
			return err
		}
		printResult(os.Stdout, res)
		return nil
	}

	histPath := cfg.Client.HistoryFile
	if c.IsSet("history") {
		histPath = c.String("history")
	}
	if histPath == "" {
		histPath = defaultHistoryPath()
	}
	h := NewHistory(histPath, cfg.Client.HistoryMax)
	if err := h.Load(); err != nil {
		printError(os.Stderr, err)
	}

	return repl(ex, h, addr)
}

func repl(ex execer, h *History, addr string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	for _, line := range h.Lines() {
		_ = rl.SaveHistory(line)
	}

	out := rl.Stdout()
	fmt.Fprintf(out, "connected to %s\n", addr)
	fmt.Fprintln(out, `type \help for help`)

	var buf strings.Builder
	flush := func() {
		stmt := strings.TrimSpace(buf.String())
		buf.Reset()
		rl.SetPrompt(prompt)
		if stmt == "" {
			return
		}

		_ = h.Append(stmt)
		_ = rl.SaveHistory(compactOneLine(stmt))

		res, err := ex.Exec(stmt)
		if err != nil {
			printError(out, err)
			return
		}
		printResult(out, res)
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if buf.Len() > 0 {
				buf.Reset()
				rl.SetPrompt(prompt)
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}

		if buf.Len() == 0 && isMetaCommand(line) {
			if runMeta(out, line, ex, h) {
				return nil
			}
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(line)

		if statementComplete(buf.String()) {
			flush()
			continue
		}
		rl.SetPrompt(contPrompt)
	}
}
