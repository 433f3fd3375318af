package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/analytics"
	"github.com/coursehub/backend/core/user"
)

var errHelp = errors.New("help provided")

// the CLI acts with full rights
var adminIdentity = core.Identity{Role: core.RoleAdmin}

type commandLine struct {
	conf         *core.Config
	db           *sql.DB // nil with the in-memory store
	validate     *validator.Validate
	translator   ut.Translator
	usrSvc       *user.Service
	analyticsSvc *analytics.Service
	out          io.Writer
}

func newCLI(conf *core.Config, db *sql.DB, usrSvc *user.Service, analyticsSvc *analytics.Service) *commandLine {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return &commandLine{
		conf:         conf,
		db:           db,
		validate:     validate,
		translator:   translator,
		usrSvc:       usrSvc,
		analyticsSvc: analyticsSvc,
		out:          os.Stdout,
	}
}

func (cli *commandLine) ctx() context.Context {
	return core.WithIdentity(context.Background(), adminIdentity)
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) against the embedded migrations\n")
	cli.printf("  adduser -email EMAIL -name NAME -role ROLE - create or update a user\n")
	cli.printf("  importusers -file FILE.xlsx - create users from the first sheet (email | full_name | role)\n")
	cli.printf("  report -course ID -out FILE.xlsx - export course analytics and student progress\n")
	cli.printf("  token -user ID [-ttl DURATION] - print a bearer token for a user\n")
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := cli.flagSet("adduser")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserRole := addUserCmd.String("role", core.RoleStudent, "One of admin, lecturer, student.")

	importUsersCmd := cli.flagSet("importusers")
	importUsersFile := importUsersCmd.String("file", "", "Path to the XLSX workbook.")

	reportCmd := cli.flagSet("report")
	reportCourse := reportCmd.String("course", "", "The course ID.")
	reportOut := reportCmd.String("out", "report.xlsx", "Path of the XLSX workbook to write.")

	tokenCmd := cli.flagSet("token")
	tokenUser := tokenCmd.String("user", "", "The user ID.")
	tokenTTL := tokenCmd.Duration("ttl", 0, "Token lifetime. Defaults to the configured TTL.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		usr, created, err := cli.addUser(*addUserEmail, *addUserName, *addUserRole)
		if err != nil {
			return err
		}
		verb := "updated"
		if created {
			verb = "created"
		}
		cli.printf("%s user %s <%s> (%s)\n", verb, usr.ID, usr.Email, usr.Role)
		return nil

	case "importusers":
		if err := importUsersCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *importUsersFile == "" {
			importUsersCmd.Usage()
			return errHelp
		}
		res, err := cli.importUsers(*importUsersFile)
		if err != nil {
			return err
		}
		for _, skip := range res.Skipped {
			cli.printf("row %d skipped: %s\n", skip.Row, skip.Reason)
		}
		cli.printf("%d created, %d skipped\n", len(res.Created), len(res.Skipped))
		return nil

	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *reportCourse == "" || *reportOut == "" {
			reportCmd.Usage()
			return errHelp
		}
		if err := cli.report(*reportCourse, *reportOut); err != nil {
			return err
		}
		cli.printf("report written to %s\n", *reportOut)
		return nil

	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *tokenUser == "" {
			tokenCmd.Usage()
			return errHelp
		}
		ttl := *tokenTTL
		if ttl <= 0 {
			ttl = cli.conf.TokenTTL
		}
		token, err := cli.token(*tokenUser, ttl)
		if err != nil {
			return err
		}
		cli.printf("%s\n", token)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

// token mints a bearer token for an existing user.
func (cli *commandLine) token(userID string, ttl time.Duration) (string, error) {
	usr, err := cli.usrSvc.GetByID(cli.ctx(), userID)
	if err != nil {
		return "", err
	}
	return user.IssueToken(usr, cli.conf.AppName, []byte(cli.conf.SecretKey), ttl)
}
