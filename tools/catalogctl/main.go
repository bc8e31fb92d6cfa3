// Command catalogctl seeds, empties and mirrors the Vastrashahi catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/database"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	mongoURI string
	dbName   string
	timeout  time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "catalogctl",
	Short:         "Maintenance tasks for the Vastrashahi catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	_ = godotenv.Load()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	name := os.Getenv("MONGO_DB_NAME")
	if name == "" {
		name = "vastrashahi"
	}
	rootCmd.PersistentFlags().StringVar(&mongoURI, "mongo", uri, "MongoDB URI")
	rootCmd.PersistentFlags().StringVar(&dbName, "db", name, "MongoDB database name")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall deadline for the command")

	rootCmd.AddCommand(seedCmd, deleteProductsCmd, exportDDBCmd)
}

// withDB connects, runs fn under the command deadline and disconnects.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, db *mongo.Database) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	client, db, err := database.ConnectMongo(ctx, mongoURI, dbName)
	if err != nil {
		return err
	}
	defer func() { _ = database.DisconnectMongo(client) }()
	return fn(ctx, db)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
