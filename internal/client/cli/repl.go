package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"galleryctl/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context, mine bool, q models.ListQuery) error
	Search(ctx context.Context, query string, q models.ListQuery) error
	Show(ctx context.Context, id string) error
	Upload(ctx context.Context, paths, titles []string) error
	Remove(ctx context.Context, id string) error
	SetTitle(ctx context.Context, id, title string) error
	Stats(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop over the gallery commands.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Handler errors are printed and swallowed; the loop itself never fails.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gallery%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist [mine] [page], search <text>, show <id>, upload <path>..., rm <id>, title <id> <text>, stats, whoami, logout, exit")
			} else {
				printlnFn("Available commands: (l)ist [page], search <text>, show <id>, stats, register, login, exit")
			}

		case "register":
			err = a.Register(ctx, "", "", "")

		case "login":
			err = a.Login(ctx, "", "")

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.Whoami(ctx)

		case "l", "list":
			mine := false
			q := models.ListQuery{}
			for _, arg := range args {
				if arg == "mine" {
					mine = true
				} else if page, convErr := strconv.Atoi(arg); convErr == nil {
					q.Page = page
				}
			}
			err = a.List(ctx, mine, q)

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <text>")
				continue
			}
			err = a.Search(ctx, strings.Join(args, " "), models.ListQuery{})

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			err = a.Show(ctx, args[0])

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path> [path...]")
				continue
			}
			err = a.Upload(ctx, args, nil)

		case "rm":
			if len(args) == 0 {
				printlnFn("Usage: rm <id>")
				continue
			}
			err = a.Remove(ctx, args[0])

		case "title":
			if len(args) < 2 {
				printlnFn("Usage: title <id> <text>")
				continue
			}
			err = a.SetTitle(ctx, args[0], strings.Join(args[1:], " "))

		case "stats":
			err = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}

func (a *App) replStatus() string {
	if user := a.session.Current(); user != nil {
		return fmt.Sprintf(" (%s)", user.Email)
	}
	return ""
}

// Repl runs the interactive loop until EOF or exit.
func (a *App) Repl(ctx context.Context) {
	printlnFn("Welcome to the gallery CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.replStatus, scanner)
}
