package main

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/user"
)

// addUser updates the user owning email, or creates it.
func (cli *commandLine) addUser(email, name, role string) (usr user.User, created bool, err error) {
	nu := user.NewUser{Email: email, FullName: name, Role: role}
	if err = nu.Validate(cli.validate); err != nil {
		return user.User{}, false, errors.New(cli.describe(err))
	}

	ctx := cli.ctx()
	existing, err := cli.usrSvc.GetByEmail(ctx, nu.Email)
	switch {
	case err == nil:
		usr, err = cli.usrSvc.Update(ctx, user.UpdateUser{
			ID:       existing.ID,
			FullName: &nu.FullName,
			Role:     &nu.Role,
		})
		return usr, false, err
	case core.IsNotFound(err):
		usr, err = cli.usrSvc.Create(ctx, nu)
		return usr, err == nil, err
	default:
		return user.User{}, false, err
	}
}

// describe turns validation errors into a single readable line.
func (cli *commandLine) describe(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Field()+": "+fe.Translate(cli.translator))
		}
		return strings.Join(msgs, "; ")
	}
	var verr *core.ValidationError
	if errors.As(err, &verr) && verr.Err == nil && len(verr.Fields) > 0 {
		return verr.Fields[0].Field + ": " + verr.Fields[0].Error
	}
	return errors.Cause(err).Error()
}
