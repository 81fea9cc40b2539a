package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazardhub/siren/pkg/cli/config"
	server "github.com/hazardhub/siren/pkg/controller/http"
	"github.com/hazardhub/siren/pkg/domain/interfaces"
	"github.com/hazardhub/siren/pkg/repository"
	"github.com/hazardhub/siren/pkg/sweeper"
	"github.com/hazardhub/siren/pkg/usecase"
	"github.com/hazardhub/siren/pkg/utils/logging"
	"github.com/hazardhub/siren/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		addr          string
		sweepInterval time.Duration
		firestoreCfg  config.Firestore
		sentryCfg     config.Sentry
		authCfg       config.Auth
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Aliases:     []string{"a"},
			Usage:       "Listen address",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("SIREN_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "Interval of the automatic-expiry sweep (0 disables it)",
			Value:       time.Minute,
			Sources:     cli.EnvVars("SIREN_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
	}
	flags = append(flags, firestoreCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the alert API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			var repo interfaces.Repository
			if firestoreCfg.IsConfigured() {
				firestore, err := firestoreCfg.Configure(ctx)
				if err != nil {
					return err
				}
				defer safe.Close(ctx, firestore)
				repo = firestore
			} else {
				logging.Default().Warn("Firestore is not configured, using in-memory store")
				repo = repository.NewMemory()
			}

			uc := usecase.New(usecase.WithRepository(repo))

			var serverOptions []server.Options
			if verifier := authCfg.Verifier(); verifier != nil {
				serverOptions = append(serverOptions, server.WithTokenVerifier(verifier))
			}

			logging.Default().Info("starting server",
				"addr", addr,
				"sweep_interval", sweepInterval,
				"firestore", firestoreCfg,
				"sentry", sentryCfg,
				"auth", authCfg,
			)

			sweepCtx, stopSweeper := context.WithCancel(ctx)
			defer stopSweeper()
			var sw *sweeper.Sweeper
			if sweepInterval > 0 {
				sw = sweeper.New(uc.AutoExpireSweep, sweepInterval)
				sw.Start(sweepCtx)
			}

			httpServer := http.Server{
				Addr:              addr,
				Handler:           server.New(uc, serverOptions...),
				ReadTimeout:       30 * time.Second,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			errCh := make(chan error, 1)
			go func() {
				defer close(errCh)
				if err := httpServer.ListenAndServe(); err != nil {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				stopSweeper()
				if sw != nil {
					sw.Wait()
				}

				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(ctx)
			}
		},
	}
}
