package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/config"
)

type App struct {
	config   *config.Config
	client   client.Client
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

// newClient is a test seam for the HTTP client constructor.
var newClient = func(c *config.Config) (client.Client, error) {
	return client.NewHTTPClient(c.ServerURL, c.Timeout)
}

func NewApp(c *config.Config) (*App, error) {
	cl, err := newClient(c)
	if err != nil {
		return nil, err
	}
	return &App{config: c, client: cl, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run starts the REPL and blocks until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintf(a.out, "gophdrive client, server %s (type 'help' for commands)\n", a.config.ServerURL)
	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}
