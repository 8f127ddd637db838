package cli

import (
	"context"
	"fmt"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login authenticates with the server. Empty arguments are prompted for
// interactively so the same method backs both the cobra command and the REPL.
func (a *App) Login(ctx context.Context, email, password string) error {
	var err error
	if email == "" {
		if email, err = getSimpleText(a.reader, "Enter email", os.Stdout); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = getPassword(os.Stdout); err != nil {
			return err
		}
	}

	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		return a.checkErr(ctx, err)
	}

	fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

// Register creates an account. It never logs the new account in; the user
// runs login explicitly afterwards.
func (a *App) Register(ctx context.Context, name, email, password string) error {
	var err error
	if name == "" {
		if name, err = getSimpleText(a.reader, "Enter name", os.Stdout); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = getSimpleText(a.reader, "Enter email", os.Stdout); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = getPassword(os.Stdout); err != nil {
			return err
		}
	}

	user, err := a.session.Register(ctx, name, email, password)
	if err != nil {
		return a.checkErr(ctx, err)
	}

	fmt.Printf("Account created for %s. Run 'login' to sign in.\n", user.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// Whoami prints the cached identity without touching the network.
func (a *App) Whoami(ctx context.Context) error {
	user := a.session.Current()
	if user == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	return nil
}
