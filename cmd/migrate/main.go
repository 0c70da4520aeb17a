package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	mongoMigration "roombook/internal/migrations/mongo"
	"roombook/pkg/auth"
	"roombook/pkg/clock"
	"roombook/pkg/config"
	"roombook/pkg/model"
)

const JobName = "mongo-migration"

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "prepare the reservations database",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "create collections, validators and indexes",
				Flags:  []cli.Flag{timeoutFlag()},
				Action: up,
			},
			{
				Name:  "seed",
				Usage: "upsert spaces and members from a TOML file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "seed file path", Required: true},
					timeoutFlag(),
				},
				Action: seed,
			},
			{
				Name:  "token",
				Usage: "mint a bearer token for a member",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "member", Usage: "member id", Required: true},
					&cli.StringFlag{Name: "role", Value: model.RoleUser, Usage: "USER or ADMIN"},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "token lifetime"},
				},
				Action: token,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func timeoutFlag() cli.Flag {
	return &cli.DurationFlag{Name: "timeout", Value: 120 * time.Second, Usage: "overall deadline"}
}

func up(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, db, cfg.Log); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func seed(c *cli.Context) error {
	file, err := mongoMigration.LoadSeedFile(c.String("file"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	result, err := mongoMigration.Seed(ctx, db, file, time.Now().UTC(), cfg.Log)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	printIDs(c, "space", result.Spaces)
	printIDs(c, "member", result.Members)
	return nil
}

func printIDs(c *cli.Context, kind string, ids map[string]string) {
	names := make([]string, 0, len(ids))
	for name := range ids {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", kind, ids[name], name)
	}
}

func token(c *cli.Context) error {
	role := c.String("role")
	if role != model.RoleUser && role != model.RoleAdmin {
		return fmt.Errorf("role must be %s or %s, got %q", model.RoleUser, model.RoleAdmin, role)
	}

	cfg := config.Load(JobName)
	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, clock.NewSystem())
	signed, err := verifier.Issue(auth.Principal{MemberID: c.String("member"), Role: role}, c.Duration("ttl"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, signed)
	return nil
}
