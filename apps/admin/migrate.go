package main

import (
	"github.com/pkg/errors"

	"github.com/coursehub/backend/storage/database"
)

var gooseRunFunc = database.RunGoose // mockable

var errNoDatabase = errors.New("migrate needs a postgres database (database.inMemory is set)")

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	return gooseRunFunc(args[0], cli.db, args[1:]...)
}
