// Command issue-token signs a development access token with the configured
// JWT_SECRET. The API itself never issues tokens.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/upb/jwt-auth-api/config"
	"github.com/upb/jwt-auth-api/tokens"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "issue-token: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	sub := fs.String("sub", "", "subject (user id) to put in the token")
	username := fs.String("username", "", "username claim")
	email := fs.String("email", "", "email claim")
	ttl := fs.Duration("ttl", 0, "token lifetime (defaults to JWT_EXPIRES_IN)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sub == "" {
		return fmt.Errorf("-sub is required")
	}

	cfg, err := config.New(ctx)
	if err != nil {
		return err
	}

	lifetime := cfg.Auth.ExpiresIn
	if *ttl > 0 {
		lifetime = *ttl
	}

	issuer, err := tokens.NewIssuer(cfg.Auth.TokenConfig(), lifetime)
	if err != nil {
		return fmt.Errorf("failed to create issuer: %w", err)
	}

	token, expiresAt, err := issuer.Issue(tokens.Identity{
		Subject:  *sub,
		Username: *username,
		Email:    *email,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, token)
	fmt.Fprintf(out, "# expires %s\n", expiresAt.UTC().Format(time.RFC3339))
	return nil
}
