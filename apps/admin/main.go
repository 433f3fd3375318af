package main

import (
	"fmt"
	"os"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/analytics"
	"github.com/coursehub/backend/core/user"
	logsvc "github.com/coursehub/backend/services/logger"
	"github.com/coursehub/backend/storage/database"
	inmemdb "github.com/coursehub/backend/storage/database/inmem"
	sqlxrepos "github.com/coursehub/backend/storage/database/sqlx"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logsvc.NewLogger("ADMIN", conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	cli, closeDB, err := newCommandLine(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}

	err = cli.run(os.Args)
	if cerr := closeDB(); cerr != nil {
		logger.Error(fmt.Sprintf("closing database: %v", cerr), cerr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("%s failed: %v", os.Args[1], err), err)
		}
		logger.Close()
		os.Exit(1)
	}
}

func newCommandLine(conf *core.Config) (*commandLine, func() error, error) {
	if conf.Database.InMemory {
		db := inmemdb.Open()
		cli := newCLI(
			conf, nil,
			user.NewService(inmemdb.NewUserRepository(db)),
			analytics.NewService(analytics.Deps{
				Repo:        inmemdb.NewAnalyticsRepository(db),
				Courses:     inmemdb.NewCourseRepository(db),
				Enrollments: inmemdb.NewEnrollmentRepository(db),
				Assignments: inmemdb.NewAssignmentRepository(db),
				Submissions: inmemdb.NewSubmissionRepository(db),
			}),
		)
		return cli, func() error { return nil }, nil
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, nil, err
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	cli := newCLI(
		conf, db.DB,
		user.NewService(sqlxrepos.NewUserRepository(db)),
		analytics.NewService(analytics.Deps{
			Repo:        sqlxrepos.NewAnalyticsRepository(db),
			Courses:     sqlxrepos.NewCourseRepository(db),
			Enrollments: sqlxrepos.NewEnrollmentRepository(db),
			Assignments: sqlxrepos.NewAssignmentRepository(db),
			Submissions: sqlxrepos.NewSubmissionRepository(db),
		}),
	)
	return cli, db.Close, nil
}
