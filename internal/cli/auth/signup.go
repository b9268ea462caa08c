package auth

import (
	"context"
	"fmt"

	"github.com/julianstephens/ordiaa/internal/cli"
)

type SignupCmd struct {
	Email    string `help:"Account email." env:"ORDIAA_EMAIL"`
	Password string `help:"Account password (prompted when omitted)."`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	creds, err := resolve("Create an ordiaa account", c.Email, c.Password)
	if err != nil {
		return err
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if _, err := ctx.Client.Signup(reqCtx, creds.Email, creds.Password); err != nil {
		return serverMessage(err)
	}

	fmt.Println("Account created! Please log in.")
	return nil
}
