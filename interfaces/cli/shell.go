// Package cli is the line-oriented front end of the admin console and the
// workspace. Each command maps to a view of the app's route table, so the
// route guard decides what an unauthenticated user can reach.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"ianct-client/interfaces/router"
	apperrors "ianct-client/pkg/errors"
	"ianct-client/pkg/validation"

	"go.uber.org/zap"
)

// Command is one shell command. Run receives the arguments after the
// command name.
type Command struct {
	Usage   string
	Help    string
	MinArgs int
	Run     func(ctx context.Context, args []string) error
}

// Shell reads commands line by line and dispatches them.
type Shell struct {
	name     string
	out      io.Writer
	nav      *router.Navigator
	logger   *zap.Logger
	commands map[string]Command
}

func newShell(name string, out io.Writer, nav *router.Navigator, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Shell{
		name:     name,
		out:      out,
		nav:      nav,
		logger:   logger.Named("cli"),
		commands: make(map[string]Command),
	}
	s.register("help", Command{Help: "list commands", Run: s.help})
	s.register("goto", Command{
		Usage:   "goto <path>",
		Help:    "navigate to a route",
		MinArgs: 1,
		Run: func(ctx context.Context, args []string) error {
			_, err := s.visit(ctx, args[0])
			return err
		},
	})
	s.register("where", Command{Help: "show the current route", Run: s.where})
	return s
}

func (s *Shell) register(name string, cmd Command) {
	s.commands[name] = cmd
}

// Run reads commands from in until EOF, "exit" or ctx is done.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(s.out, "%s shell. Type 'help' for commands.\n", s.name)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(s.out, "%s> ", s.name)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		name := strings.ToLower(parts[0])
		if name == "exit" || name == "quit" {
			return nil
		}
		s.Exec(ctx, name, parts[1:])
	}
}

// Exec runs one command and prints its error, if any.
func (s *Shell) Exec(ctx context.Context, name string, args []string) {
	cmd, ok := s.commands[name]
	if !ok {
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", name)
		return
	}
	if len(args) < cmd.MinArgs {
		fmt.Fprintf(s.out, "Usage: %s\n", cmd.Usage)
		return
	}
	if err := cmd.Run(ctx, args); err != nil {
		s.logger.Debug("Command failed", zap.String("command", name), zap.Error(err))
		fmt.Fprintf(s.out, "Error: %s\n", describe(err))
	}
}

func (s *Shell) help(_ context.Context, _ []string) error {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, name := range names {
		cmd := s.commands[name]
		usage := cmd.Usage
		if usage == "" {
			usage = name
		}
		fmt.Fprintf(tw, "  %s\t%s\n", usage, cmd.Help)
	}
	fmt.Fprintf(tw, "  exit\tleave the shell\n")
	return tw.Flush()
}

func (s *Shell) where(_ context.Context, _ []string) error {
	loc := s.nav.Current()
	if loc.FullPath == "" {
		fmt.Fprintln(s.out, "(nowhere)")
		return nil
	}
	fmt.Fprintln(s.out, loc.FullPath)
	return nil
}

// visit navigates to path and reports where the guard let the user land.
func (s *Shell) visit(ctx context.Context, path string) (router.Location, error) {
	loc, err := s.nav.Navigate(ctx, path)
	if err != nil {
		return router.Location{}, err
	}
	fmt.Fprintf(s.out, "-> %s\n", loc.FullPath)
	return loc, nil
}

// enter navigates to path and reports whether the user is on it. A guard
// redirect, such as to the login page, means the view is not shown.
func (s *Shell) enter(ctx context.Context, path string) (bool, error) {
	loc, err := s.nav.Navigate(ctx, path)
	if err != nil {
		return false, err
	}
	if loc.Path != path {
		fmt.Fprintf(s.out, "-> %s\n", loc.FullPath)
		return false, nil
	}
	return true, nil
}

// afterLogin continues to the page a guard redirect preserved, or to home.
func (s *Shell) afterLogin(ctx context.Context, home string) error {
	target := s.nav.Current().Query.Get("redirect")
	if target == "" {
		target = home
	}
	_, err := s.visit(ctx, target)
	return err
}

func (s *Shell) table(header string, rows func(w io.Writer)) error {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

// describe prefers the backend's own message over the error chain.
func describe(err error) string {
	return apperrors.ServerMessage(err, validation.Message(err))
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("invalid id %q", arg))
	}
	return id, nil
}
