package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errUsage = errors.New("usage")

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Ping(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on a cancelled context or when the user types
// "exit" or "quit".
//
//	Not logged in:
//	  help, ping, register, login, exit | quit
//
//	Logged in:
//	  help, ping, list | ls, upload <path>...,
//	  download [--stored] <name> [destination], delete | rm [--stored] <name>,
//	  logout, exit | quit
//
// A bare name is a display name and picks the most recent upload under it;
// --stored addresses the exact stored name from the listing.
//
// Arguments may be quoted with single or double quotes so that names with
// spaces survive tokenizing. Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gd%s> ", prefixSpace(statusFn())))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts, perr := splitArgs(line)
		if perr != nil {
			printlnFn("Error:", perr)
			continue
		}
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, upload, download [--stored], delete [--stored], ping, logout, exit")
			} else {
				printlnFn("Available commands: register, login, ping, exit")
			}
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "ping":
			report(a.Ping(ctx))
		case "register":
			report(a.Register(ctx))
		case "login":
			report(a.Login(ctx))
		case "logout", "l", "list", "ls", "upload", "download", "delete", "rm":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			switch cmd {
			case "logout":
				report(a.Logout(ctx))
			case "l", "list", "ls":
				report(a.List(ctx))
			case "upload":
				report(a.Upload(ctx, args))
			case "download":
				report(a.Download(ctx, args))
			default:
				report(a.Delete(ctx, args))
			}
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}

// report prints err in terms the user can act on.
func report(err error) {
	if err == nil {
		return
	}
	printlnFn("Error:", describe(err))
}

func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return err.Error()
	}
}

// splitArgs splits line on whitespace, honoring single and double quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		started bool
	)
	for _, r := range strings.TrimRight(line, "\r\n") {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			started = true
		case r == ' ' || r == '\t':
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote %q", quote)
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
