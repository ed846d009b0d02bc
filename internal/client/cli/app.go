// Package cli implements the gophtasks command-line client: one command per
// invocation, talking to the server through a TasksClient.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
)

type TasksClient interface {
	SignUp(ctx context.Context, userName, password string) error
	SignIn(ctx context.Context, userName, password string) (string, error)
	ListTasks(ctx context.Context, status, search string) ([]*models.Task, error)
	CreateTask(ctx context.Context, title, description string) (*models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id, status string) (*models.Task, error)
}

// ErrUsage means the command line could not be understood; usage has
// already been printed.
var ErrUsage = errors.New("usage error")

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

const usage = `Usage: gophtasks-cli [-a addr] [-k token] [-c config.json] <command> [args]

Commands:
  signup [username]              create an account
  signin [username]              print an access token
  list [-status S] [-search Q]   list your tasks
  create -t TITLE [-d DESC]      create a task
  get ID                         show a task
  delete ID                      delete a task
  status ID STATUS               set status (OPEN, IN_PROGRESS, DONE)
`

type App struct {
	client TasksClient
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c TasksClient, in io.Reader, out io.Writer) *App {
	return &App{client: c, reader: bufio.NewReader(in), out: out}
}

func (a *App) Usage() {
	fmt.Fprint(a.out, usage)
}

// Run executes the command in args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.Usage()
		return ErrUsage
	}

	cmd, args := args[0], args[1:]

	switch cmd {
	case "help":
		a.Usage()
		return nil
	case "signup":
		return a.signUp(ctx, args)
	case "signin", "login":
		return a.signIn(ctx, args)
	case "list", "l":
		return a.list(ctx, args)
	case "create", "add":
		return a.create(ctx, args)
	case "get", "show":
		return a.get(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "status":
		return a.status(ctx, args)
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
		a.Usage()
		return ErrUsage
	}
}

func (a *App) credentials(args []string) (string, string, error) {
	var userName string
	if len(args) > 0 {
		userName = args[0]
	} else {
		var err error
		if userName, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
			return "", "", err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return userName, password, nil
}

func (a *App) signUp(ctx context.Context, args []string) error {
	userName, password, err := a.credentials(args)
	if err != nil {
		return err
	}

	if err := a.client.SignUp(ctx, userName, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) signIn(ctx context.Context, args []string) error {
	userName, password, err := a.credentials(args)
	if err != nil {
		return err
	}

	token, err := a.client.SignIn(ctx, userName, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, token)
	return nil
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) list(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	status := fs.String("status", "", "OPEN, IN_PROGRESS or DONE")
	search := fs.String("search", "", "text to look for in title or description")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	tasks, err := a.client.ListTasks(ctx, *status, *search)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Status, t.Title)
	}
	return tw.Flush()
}

func (a *App) create(ctx context.Context, args []string) error {
	fs := a.flagSet("create")
	title := fs.String("t", "", "title (required)")
	description := fs.String("d", "", "description")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if strings.TrimSpace(*title) == "" {
		fmt.Fprintln(a.out, "Usage: create -t TITLE [-d DESC]")
		return ErrUsage
	}

	task, err := a.client.CreateTask(ctx, *title, *description)
	if err != nil {
		return err
	}

	a.printTask(task)
	return nil
}

func (a *App) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: get <id>")
		return ErrUsage
	}

	task, err := a.client.GetTask(ctx, args[0])
	if err != nil {
		return err
	}

	a.printTask(task)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return ErrUsage
	}

	if err := a.client.DeleteTask(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Deleted")
	return nil
}

func (a *App) status(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: status <id> <OPEN|IN_PROGRESS|DONE>")
		return ErrUsage
	}

	task, err := a.client.UpdateStatus(ctx, args[0], strings.ToUpper(args[1]))
	if err != nil {
		return err
	}

	a.printTask(task)
	return nil
}

func (a *App) printTask(t *models.Task) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", t.Description)
	}
	fmt.Fprintf(tw, "Status:\t%s\n", t.Status)
	fmt.Fprintf(tw, "Created:\t%s\n", t.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(tw, "Updated:\t%s\n", t.UpdatedAt.Local().Format(time.DateTime))
	_ = tw.Flush()
}
