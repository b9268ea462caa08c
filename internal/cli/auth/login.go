package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ordiaa/internal/cli"
	apperrors "github.com/julianstephens/ordiaa/internal/errors"
)

const requestTimeout = 15 * time.Second

// credentialsForm is swapped in tests so no terminal is needed.
var credentialsForm = promptCredentials

type credentials struct {
	Email    string
	Password string
}

func promptCredentials(title string, c *credentials) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&c.Email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("enter an email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&c.Password).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password cannot be empty")
					}
					return nil
				}),
		).Title(title),
	).Run()
}

// resolve fills in whichever of email and password was not passed as a flag.
func resolve(title, email, password string) (credentials, error) {
	c := credentials{Email: email, Password: password}
	if c.Email != "" && c.Password != "" {
		return c, nil
	}
	if err := credentialsForm(title, &c); err != nil {
		return c, err
	}
	return c, nil
}

// serverMessage unwraps the text the server sent, so failures read the way
// the server phrased them.
func serverMessage(err error) error {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Message)
	}
	return err
}

type LoginCmd struct {
	Email    string `help:"Account email." env:"ORDIAA_EMAIL"`
	Password string `help:"Account password (prompted when omitted)."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	creds, err := resolve("Log in to ordiaa", c.Email, c.Password)
	if err != nil {
		return err
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if _, err := ctx.Client.Login(reqCtx, creds.Email, creds.Password); err != nil {
		return serverMessage(err)
	}
	fmt.Printf("✓ Logged in as %s\n", creds.Email)

	if err := ctx.Sync.Sync(context.Background()); err != nil {
		fmt.Printf("⚠ Logged in, but the first sync failed: %v\n", err)
		return nil
	}
	fmt.Println("✓ Synced with", ctx.Client.BaseURL())
	return nil
}
