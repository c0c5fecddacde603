package main

import (
	"context"
	"fmt"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/professor"
)

// addProfessor creates a professor, applying the same rules as the registration form.
func (cli *commandLine) addProfessor(uname, fullName, pwd string) error {
	np := professor.NewProfessor{
		FullName: fullName,
		Username: uname,
		Password: pwd,
	}
	if err := np.Validate(cli.validate); err != nil {
		return err
	}
	prof, err := cli.profSvc.Register(context.Background(), np)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "professor %q created (id %d)\n", prof.Username, prof.ID)
	return nil
}
