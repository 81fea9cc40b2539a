package cli

import (
	"context"

	"github.com/hazardhub/siren/pkg/cli/config"
	"github.com/hazardhub/siren/pkg/usecase"
	"github.com/hazardhub/siren/pkg/utils/logging"
	"github.com/hazardhub/siren/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// cmdSweep runs a single automatic-expiry pass and exits. Meant for
// scheduled jobs when the serving process runs with the sweeper disabled.
func cmdSweep() *cli.Command {
	var (
		firestoreCfg config.Firestore
		sentryCfg    config.Sentry
	)

	var flags []cli.Flag
	flags = append(flags, firestoreCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:  "sweep",
		Usage: "Run one automatic-expiry pass and exit",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			if !firestoreCfg.IsConfigured() {
				return goerr.New("firestore-project-id is required for the sweep command")
			}

			firestore, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer safe.Close(ctx, firestore)

			uc := usecase.New(usecase.WithRepository(firestore))

			expired, err := uc.AutoExpireSweep(ctx)
			if err != nil {
				return err
			}

			logging.Default().Info("expiry sweep completed", "expired", expired)
			return nil
		},
	}
}
