package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/coursehub/backend/core/user"
)

type (
	skippedRow struct {
		Row    int // 1-based, as shown by spreadsheet apps
		Reason string
	}

	importResult struct {
		Created []user.User
		Skipped []skippedRow
	}
)

// importUsers creates one user per row of the first sheet: email | full_name | role.
// The first row is a header. Invalid rows and existing emails are skipped.
func (cli *commandLine) importUsers(path string) (importResult, error) {
	var res importResult

	f, err := excelize.OpenFile(path)
	if err != nil {
		return res, errors.Wrapf(err, "opening %s", path)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return res, errors.Wrap(err, "reading rows")
	}
	if len(rows) < 2 {
		return res, nil
	}

	ctx := cli.ctx()
	for i, row := range rows[1:] {
		rowNum := i + 2
		cells := make([]string, 3)
		copy(cells, row)
		if strings.TrimSpace(strings.Join(cells, "")) == "" {
			continue
		}

		nu := user.NewUser{Email: cells[0], FullName: cells[1], Role: cells[2]}
		if err := nu.Validate(cli.validate); err != nil {
			res.Skipped = append(res.Skipped, skippedRow{Row: rowNum, Reason: cli.describe(err)})
			continue
		}
		usr, err := cli.usrSvc.Create(ctx, nu)
		if err != nil {
			if errors.Is(err, user.ErrEmailExists) {
				res.Skipped = append(res.Skipped, skippedRow{Row: rowNum, Reason: user.ErrEmailExists.Error()})
				continue
			}
			return res, errors.Wrapf(err, "row %d", rowNum)
		}
		res.Created = append(res.Created, usr)
	}
	return res, nil
}
