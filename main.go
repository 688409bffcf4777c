package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/freedesk/mailroom/config"
	"github.com/freedesk/mailroom/internal/database"
	"github.com/freedesk/mailroom/internal/repository"
	"github.com/freedesk/mailroom/server"
)

func main() {
	app := &cli.App{
		Name:  "mailroom",
		Usage: "helpdesk email ingestion service",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Run database migrations",
				Action: runMigrate,
			},
			{
				Name:   "fetch-emails",
				Usage:  "Run one ingestion pass over all mailboxes and exit",
				Action: runFetchOnce,
			},
			{
				Name:   "daemon",
				Usage:  "Start the HTTP server and the fetch scheduler",
				Action: runDaemon,
			},
			{
				Name:   "fetch-daemon",
				Usage:  "Poll mailboxes in a loop without cron scheduling",
				Action: runFetchDaemon,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func initServer() (*server.Server, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(cfg.DatabaseConfig)
	if err != nil {
		return nil, err
	}

	return server.NewServer(cfg, db)
}

func runMigrate(c *cli.Context) error {
	cfg, err := config.InitConfig()
	if err != nil {
		return err
	}

	db, err := database.NewConnection(cfg.DatabaseConfig)
	if err != nil {
		return err
	}

	if err := repository.MigrateDB(cfg.DatabaseConfig, db); err != nil {
		return err
	}

	log.Println("Database migration completed successfully")
	return nil
}

func runFetchOnce(c *cli.Context) error {
	srv, err := initServer()
	if err != nil {
		return err
	}

	result := srv.Fetcher().Run(context.Background())
	log.Printf("Fetch done: %d processed, %d skipped, %d mailbox failures",
		result.Processed(), result.Skipped(), result.MailboxFailures())
	return nil
}

func runDaemon(c *cli.Context) error {
	srv, err := initServer()
	if err != nil {
		return err
	}

	return srv.Run()
}

func runFetchDaemon(c *cli.Context) error {
	srv, err := initServer()
	if err != nil {
		return err
	}

	return srv.RunFetchDaemon()
}
