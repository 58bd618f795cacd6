package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-runewidth"

	"parley/internal/app"
	"parley/internal/client"
	"parley/internal/config"
	"parley/internal/logging"
	"parley/internal/pending"
	"parley/internal/push"
)

const usageText = `parley is a terminal client for remote inference sessions.

Usage:
  parley <command> [flags]

Commands:
  open <session-id>   open a session in the terminal UI
  ls                  list your sessions
  config              print the effective configuration
  help                show help

Flags:
  -h, --help   show help

Common flags:
  --server <url>   override the server URL
  --token <token>  override the API token

Examples:
  parley ls
  parley open ses_01h9x2
  parley open ses_01h9x2 --server https://app.tryhelix.ai
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	case "open":
		exitOnErr("open", runOpen(args[1:]))
	case "ls":
		exitOnErr("ls", runList(args[1:]))
	case "config":
		exitOnErr("config", runConfig(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func exitOnErr(command string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "parley %s: %v\n", command, err)
	os.Exit(1)
}

func loadConfig(server, token string) (config.Config, error) {
	path, err := config.ConfigPath()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if server != "" {
		cfg.Server.URL = server
		cfg.Server.LoginURL = ""
	}
	if token != "" {
		cfg.Server.Token = token
	}
	if cfg.Server.LoginURL == "" {
		cfg.Server.LoginURL = cfg.Server.URL + "/login"
	}
	return cfg, nil
}

func runOpen(args []string) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	server := fs.String("server", "", "server URL")
	token := fs.String("token", "", "API token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: parley open <session-id>")
	}
	sessionID := fs.Arg(0)

	cfg, err := loadConfig(*server, *token)
	if err != nil {
		return err
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return err
	}

	logPath, err := config.LogPath()
	if err != nil {
		return err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logging.New(logFile, logging.ParseLevel(cfg.Logging.Level))

	pendingPath, err := config.PendingPath()
	if err != nil {
		return err
	}
	store, err := pending.Open(pendingPath)
	if err != nil {
		return fmt.Errorf("open pending store: %w", err)
	}
	defer store.Close()

	api := client.New(cfg.Server.URL, cfg.Server.Token)
	subscriber := push.NewSubscriber(cfg.Server.URL, cfg.Server.Token, log)

	log.Info("opening session", logging.F("session_id", sessionID), logging.F("server", cfg.Server.URL))
	loginRequested, err := app.Run(api, store, subscriber, sessionID, log)
	if err != nil {
		return err
	}
	if loginRequested {
		fmt.Printf("Your request has been saved.\n")
		fmt.Printf("Sign in at %s, then run: parley open %s\n", cfg.Server.LoginURL, sessionID)
	}
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	server := fs.String("server", "", "server URL")
	token := fs.String("token", "", "API token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*server, *token)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := client.New(cfg.Server.URL, cfg.Server.Token)
	sessions, err := api.ListSessions(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMODE\tSHARED\tUPDATED")
	for _, session := range sessions {
		if session == nil {
			continue
		}
		shared := ""
		if session.Config.Shared {
			shared = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			session.ID, runewidth.Truncate(session.Name, 40, "…"), session.Mode, shared,
			session.Updated.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	server := fs.String("server", "", "server URL")
	token := fs.String("token", "", "API token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*server, *token)
	if err != nil {
		return err
	}
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}

	fmt.Printf("config file: %s\n", path)
	fmt.Printf("server url:  %s\n", cfg.Server.URL)
	fmt.Printf("login url:   %s\n", cfg.Server.LoginURL)
	if cfg.Server.Token != "" {
		fmt.Printf("token:       set\n")
	} else {
		fmt.Printf("token:       not set\n")
	}
	fmt.Printf("log level:   %s\n", cfg.Logging.Level)
	return nil
}
