// Command notesctl manages accounts directly in the notes database.
//
//	notesctl create-user -username alice [-role Admin]
//	notesctl set-role -username alice -role User
//
// create-user prompts for the password on a terminal, or reads one line from stdin
// when stdin is not a terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/config"
	"go-notes-api/internal/database"
	"go-notes-api/internal/model"
	"go-notes-api/internal/repository"
	"go-notes-api/internal/service"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var isTerminal = term.IsTerminal

const usage = `usage: notesctl <command> [flags]

commands:
  create-user  -username NAME [-role User|Admin]
  set-role     -username NAME -role User|Admin
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "notesctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	db, err := database.New(ctx, cfg.DatabaseURL, database.Options{MaxConns: cfg.DBMaxConns})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	hasher, err := auth.NewPasswordHasher(cfg.HashCost)
	if err != nil {
		return err
	}

	users := service.NewUserService(repository.NewUserRepository(db.Pool), hasher, service.NewAuditService(slog.Default()))
	return execute(ctx, users, command, args, os.Stdin, os.Stdout)
}

func execute(ctx context.Context, users *service.UserService, command string, args []string, in *os.File, out io.Writer) error {
	switch command {
	case "create-user":
		return createUser(ctx, users, args, in, out)
	case "set-role":
		return setRole(ctx, users, args, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func createUser(ctx context.Context, users *service.UserService, args []string, in *os.File, out io.Writer) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(out)
	username := fs.String("username", "", "account name")
	roleFlag := fs.String("role", string(model.RoleUser), "User or Admin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*username) == "" {
		return errors.New("-username is required")
	}
	role, ok := model.ParseRole(*roleFlag)
	if !ok {
		return fmt.Errorf("invalid role %q", *roleFlag)
	}

	password, err := promptPassword(in, out)
	if err != nil {
		return err
	}

	user, err := users.CreateUser(ctx, *username, password, role)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "created user %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
	return nil
}

func setRole(ctx context.Context, users *service.UserService, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("set-role", flag.ContinueOnError)
	fs.SetOutput(out)
	username := fs.String("username", "", "account name")
	roleFlag := fs.String("role", "", "User or Admin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*username) == "" {
		return errors.New("-username is required")
	}
	role, ok := model.ParseRole(*roleFlag)
	if !ok {
		return fmt.Errorf("invalid role %q", *roleFlag)
	}

	user, err := users.SetRoleByUsername(ctx, *username, role)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "user %s now has role %s\n", user.Username, user.Role)
	return nil
}

func promptPassword(in *os.File, out io.Writer) (string, error) {
	if isTerminal(int(in.Fd())) {
		fmt.Fprint(out, "Password: ")
		pw, err := readPassword(int(in.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
