package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("DEMANDFLOW_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("DEMANDFLOW_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"dryRun", dryRun)

			indexConfig := getIndexConfig()

			client, err := fireconf.NewClient(ctx, projectID, databaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if dryRun {
				logger.Info("Dry run mode - previewing changes")
				plan, err := client.GetMigrationPlan(ctx, indexConfig)
				if err != nil {
					return goerr.Wrap(err, "failed to create migration plan")
				}

				if len(plan.Steps) == 0 {
					logger.Info("No changes required")
					return nil
				}

				for _, step := range plan.Steps {
					logger.Info("Migration step",
						"collection", step.Collection,
						"operation", step.Operation,
						"description", step.Description,
						"destructive", step.Destructive)
				}
			} else {
				logger.Info("Applying migrations")
				if err := client.Migrate(ctx, indexConfig); err != nil {
					return goerr.Wrap(err, "failed to apply migrations")
				}
				logger.Info("Migrations applied successfully")
			}

			return nil
		},
	}
}

// getIndexConfig returns the Firestore index configuration
func getIndexConfig() *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: "demands",
				Indexes: []fireconf.Index{
					// List filtered by company and status
					{
						Fields: []fireconf.IndexField{
							{Path: "CompanyID", Order: fireconf.OrderAscending},
							{Path: "Status", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: "approvals",
				Indexes: []fireconf.Index{
					// ListByDemandLevel: DemandID ASC, Level ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "DemandID", Order: fireconf.OrderAscending},
							{Path: "Level", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: "history",
				Indexes: []fireconf.Index{
					// ListByDemand: DemandID ASC, CreatedAt ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "DemandID", Order: fireconf.OrderAscending},
							{Path: "CreatedAt", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: "members",
				Indexes: []fireconf.Index{
					// ListActive: Role ASC, Active ASC, CompanyID ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "Role", Order: fireconf.OrderAscending},
							{Path: "Active", Order: fireconf.OrderAscending},
							{Path: "CompanyID", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
