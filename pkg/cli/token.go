package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hazardhub/siren/pkg/cli/config"
	server "github.com/hazardhub/siren/pkg/controller/http"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/utils/authctx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// cmdToken issues a bearer token for an authority official. Officials are
// provisioned out of band; this signs their identity for the API.
func cmdToken() *cli.Command {
	var (
		officialID   string
		name         string
		organization string
		ttl          time.Duration
		authCfg      config.Auth
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "official-id",
			Usage:       "Official ID (token subject)",
			Required:    true,
			Destination: &officialID,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Display name of the official",
			Destination: &name,
		},
		&cli.StringFlag{
			Name:        "organization",
			Usage:       "Issuing organization",
			Destination: &organization,
		},
		&cli.DurationFlag{
			Name:        "ttl",
			Usage:       "Token lifetime",
			Value:       24 * time.Hour,
			Destination: &ttl,
		},
	}
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:  "token",
		Usage: "Issue a bearer token for an authority official",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			secret := authCfg.Secret()
			if len(secret) == 0 {
				return goerr.New("auth secret is required to sign tokens")
			}

			official := authctx.Official{
				ID:           types.OfficialID(officialID),
				Name:         name,
				Organization: organization,
			}
			if err := official.ID.Validate(); err != nil {
				return err
			}

			token, err := server.IssueToken(secret, official, ttl)
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}
}
