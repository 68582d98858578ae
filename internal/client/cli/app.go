package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/urfave/cli/v2"
)

const defaultServer = "localhost:50051"

// Dialer opens a client for the given server address.
type Dialer func(server string) (client.Client, error)

// DialGRPC is the production Dialer.
func DialGRPC(server string) (client.Client, error) {
	return client.NewGRPCClient(server)
}

var errPasswordMismatch = errors.New("passwords do not match")

// NewApp builds the CLI application. Prompts go to the app's ErrWriter and
// results to its Writer.
func NewApp(dial Dialer) *cli.App {
	a := &runner{dial: dial}

	return &cli.App{
		Name:  "authkeeper",
		Usage: "register, log in and inspect the current account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "gRPC address of the authkeeper server",
				EnvVars: []string{"AUTHKEEPER_SERVER"},
				Value:   defaultServer,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
					&cli.StringFlag{Name: "full-name"},
				},
				Action: a.register,
			},
			{
				Name:  "login",
				Usage: "exchange username and password for an access token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}},
				},
				Action: a.login,
			},
			{
				Name:  "me",
				Usage: "show the account the token belongs to",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "token",
						Aliases:  []string{"t"},
						EnvVars:  []string{"AUTHKEEPER_TOKEN"},
						Required: true,
					},
				},
				Action: a.me,
			},
		},
	}
}

type runner struct {
	dial Dialer
}

func (r *runner) connect(c *cli.Context) (client.Client, error) {
	cl, err := r.dial(c.String("server"))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.String("server"), err)
	}
	return cl, nil
}

// flagOrPrompt returns the flag value, asking on the terminal when it is empty.
// All prompts of one command share in, so buffered input is not lost between them.
func flagOrPrompt(c *cli.Context, in *bufio.Reader, name, prompt string) (string, error) {
	if v := c.String(name); v != "" {
		return v, nil
	}
	return GetSimpleText(in, prompt, c.App.ErrWriter)
}

func (r *runner) register(c *cli.Context) error {
	in := bufio.NewReader(c.App.Reader)

	username, err := flagOrPrompt(c, in, "username", "Username")
	if err != nil {
		return err
	}
	email, err := flagOrPrompt(c, in, "email", "Email")
	if err != nil {
		return err
	}

	password, err := GetPassword(c.App.ErrWriter, "Password")
	if err != nil {
		return err
	}
	confirm, err := GetPassword(c.App.ErrWriter, "Repeat password")
	if err != nil {
		return err
	}
	if password != confirm {
		return errPasswordMismatch
	}

	var fullName *string
	if c.IsSet("full-name") {
		v := c.String("full-name")
		fullName = &v
	}

	cl, err := r.connect(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	id, err := cl.Register(c.Context, username, email, password, fullName)
	if err != nil {
		return err
	}
	return printIdentity(c.App.Writer, id)
}

func (r *runner) login(c *cli.Context) error {
	username, err := flagOrPrompt(c, bufio.NewReader(c.App.Reader), "username", "Username")
	if err != nil {
		return err
	}
	password, err := GetPassword(c.App.ErrWriter, "Password")
	if err != nil {
		return err
	}

	cl, err := r.connect(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	token, err := cl.Login(c.Context, username, password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, token)
	return err
}

func (r *runner) me(c *cli.Context) error {
	cl, err := r.connect(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	id, err := cl.Me(c.Context, c.String("token"))
	if err != nil {
		return err
	}
	return printIdentity(c.App.Writer, id)
}

func printIdentity(w io.Writer, id *client.Identity) error {
	fullName := "-"
	if id.FullName != nil {
		fullName = *id.FullName
	}
	status := "active"
	if id.Disabled {
		status = "disabled"
	}
	_, err := fmt.Fprintf(w, "username:  %s\nemail:     %s\nfull name: %s\nstatus:    %s\n",
		id.Username, id.Email, fullName, status)
	return err
}
