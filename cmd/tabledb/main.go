// Command tabledb runs the table store from a terminal, a script or a
// WebSocket server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"tableDB/internal/assistant"
	"tableDB/internal/config"
	"tableDB/internal/logging"
	"tableDB/internal/server"
	"tableDB/internal/shell"
)

// Globals are shared by every subcommand. Flags override the config file.
type Globals struct {
	Config    string `name:"config" short:"c" help:"YAML config file." type:"path"`
	LogLevel  string `name:"log-level" help:"debug, info, warn or error."`
	LogFormat string `name:"log-format" help:"text or json."`
	DataDir   string `name:"data-dir" help:"Directory holding the database document." type:"path"`
	InMemory  bool   `name:"in-memory" help:"Do not load or save anything."`
}

var CLI struct {
	Globals

	Repl    ReplCmd    `cmd:"" default:"1" help:"Interactive prompt (default)."`
	Exec    ExecCmd    `cmd:"" help:"Run commands given as arguments, one per argument."`
	Serve   ServeCmd   `cmd:"" help:"Accept commands over WebSocket."`
	Ask     AskCmd     `cmd:"" help:"Turn a natural-language request into a query."`
	Analyze AnalyzeCmd `cmd:"" help:"Run a SELECT and ask for an analysis of the result."`
	Verify  VerifyCmd  `cmd:"" help:"Check the stored document against its hash."`
}

// load reads the config, applies flag overrides and sets up logging.
func (g *Globals) load() (*config.Root, error) {
	cfg, err := config.LoadFile(g.Config)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if g.DataDir != "" {
		cfg.Data.Dir = g.DataDir
	}
	if g.InMemory {
		cfg.Data.InMemory = true
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(level, format)
	return cfg, nil
}

func (g *Globals) open() (*config.Root, *shell.Session, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, nil, err
	}
	sess, err := shell.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, sess, nil
}

type ReplCmd struct{}

func (c *ReplCmd) Run(g *Globals) error {
	cfg, sess, err := g.open()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !sess.Secure() {
		fmt.Println("Warning: the database document does not match its stored hash.")
	}
	if err := sess.REPL(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	// without autosave, the session is written once on the way out
	if !cfg.Data.Autosave {
		return sess.Save()
	}
	return nil
}

type ExecCmd struct {
	Commands []string `arg:"" required:"" help:"Commands to run in order."`
}

func (c *ExecCmd) Run(g *Globals) error {
	cfg, sess, err := g.open()
	if err != nil {
		return err
	}
	ctx := context.Background()

	for _, command := range c.Commands {
		res, err := sess.Execute(ctx, command)
		if err != nil && res == nil {
			return err
		}
		fmt.Println(res.Render())
		if err != nil {
			return err
		}
	}
	if !cfg.Data.Autosave {
		return sess.Save()
	}
	return nil
}

type ServeCmd struct {
	Addr string `name:"addr" help:"Listen address (overrides server.addr)."`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, sess, err := g.open()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(sess,
		server.WithReadLimit(cfg.Server.ReadLimit),
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
	)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}
	if !cfg.Data.Autosave {
		return sess.Save()
	}
	return nil
}

func newAssistant(cfg *config.Root) *assistant.Client {
	return assistant.New(cfg.Assistant.Endpoint, cfg.APIKey(),
		assistant.WithModel(cfg.Assistant.Model),
		assistant.WithTemperature(cfg.Assistant.Temperature),
		assistant.WithTimeout(cfg.Assistant.Timeout),
	)
}

type AskCmd struct {
	Request []string `arg:"" required:"" help:"What you want, in plain words."`
	Execute bool     `name:"run" help:"Execute the generated query."`
}

func (c *AskCmd) Run(g *Globals) error {
	cfg, sess, err := g.open()
	if err != nil {
		return err
	}
	ctx := context.Background()

	query, err := newAssistant(cfg).NaturalToSQL(ctx, strings.Join(c.Request, " "))
	if err != nil {
		return err
	}
	fmt.Println(query)

	if c.Execute {
		fmt.Println(sess.Run(ctx, strings.TrimSpace(query)))
	}
	return nil
}

type AnalyzeCmd struct {
	Query string `arg:"" help:"A SELECT whose result is analyzed."`
}

func (c *AnalyzeCmd) Run(g *Globals) error {
	cfg, sess, err := g.open()
	if err != nil {
		return err
	}
	ctx := context.Background()

	res, err := sess.Query(ctx, c.Query)
	if err != nil {
		return err
	}
	data := res.Render()
	fmt.Println(data)

	analysis, err := newAssistant(cfg).AnalyzeData(ctx, data)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(analysis)
	return nil
}

type VerifyCmd struct{}

func (c *VerifyCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	res, err := shell.Verify(cfg)
	if err != nil {
		return err
	}
	if res.Fresh {
		fmt.Println("no database document yet")
		return nil
	}
	fmt.Printf("stored hash:   %s\ncomputed hash: %s\n", res.StoredHash, res.ComputedHash)
	if !res.Secure {
		return errors.New("database document does not match its stored hash")
	}
	fmt.Println("database document matches its stored hash")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tabledb"),
		kong.Description("A small typed table store with a SQL-like command language."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&CLI.Globals)
	ctx.FatalIfErrorf(err)
}
