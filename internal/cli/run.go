package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credstore/internal/common"
)

// Run dispatches one subcommand: enroll <id>, verify <id>, or revoke <id>.
// When the id argument is omitted, it is prompted for interactively.
// It returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		a.usage()
		return 2
	}

	cmd := args[0]
	switch cmd {
	case "enroll", "verify", "revoke":
	default:
		a.usage()
		return 2
	}

	var id string
	if len(args) > 1 {
		id = args[1]
	} else {
		var err error
		id, err = GetSimpleText(a.reader, "Credential id", a.out)
		if err != nil {
			a.logger.Error(ctx, "input failed", "err", err.Error())
			return 1
		}
	}

	switch cmd {
	case "enroll":
		return a.enroll(ctx, id)
	case "verify":
		return a.verify(ctx, id)
	default:
		return a.revoke(ctx, id)
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: credstore <enroll|verify|revoke> <credential-id>")
}

func (a *App) enroll(ctx context.Context, id string) int {
	password, err := GetPassword(a.out)
	if err != nil {
		a.logger.Error(ctx, "password input failed", "err", err.Error())
		return 1
	}
	defer common.Wipe(password)

	rec, err := a.service.Enroll(ctx, id, password)
	if err != nil {
		a.logger.Error(ctx, "enrollment failed", "id", id, "err", err.Error())
		fmt.Fprintln(a.out, "enrollment failed")
		return 1
	}

	a.logger.Info(ctx, "credential enrolled",
		"id", rec.ID, "digest", string(rec.Digest), "iterations", rec.Iterations)
	fmt.Fprintf(a.out, "enrolled credential %s\n", rec.ID)
	return 0
}

func (a *App) verify(ctx context.Context, id string) int {
	password, err := GetPassword(a.out)
	if err != nil {
		a.logger.Error(ctx, "password input failed", "err", err.Error())
		return 1
	}
	defer common.Wipe(password)

	ok, err := a.service.VerifyStored(ctx, id, password)
	if err != nil {
		// Diagnostics go to the log only. The user-visible outcome below is
		// the same for a wrong password and a broken record, so the CLI
		// cannot be used as an oracle for record state.
		a.logger.Error(ctx, "verification error", "id", id, "err", err.Error())
	}
	if !ok || err != nil {
		fmt.Fprintln(a.out, "verification failed")
		return 1
	}

	fmt.Fprintln(a.out, "password verified")
	return 0
}

func (a *App) revoke(ctx context.Context, id string) int {
	if err := a.service.Revoke(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Fprintln(a.out, "no such credential")
		} else {
			a.logger.Error(ctx, "revoke failed", "id", id, "err", err.Error())
			fmt.Fprintln(a.out, "revoke failed")
		}
		return 1
	}

	fmt.Fprintf(a.out, "revoked credential %s\n", id)
	return 0
}
