package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/muhasabah/internal/database"
	"github.com/MrEthical07/muhasabah/internal/store"
	"github.com/MrEthical07/muhasabah/todo"
)

var catalogPath string

var seedCmd = &cobra.Command{
	Use:   "seed-default-todos",
	Short: "Create the default todo catalog; existing entries are left untouched",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := todo.DefaultCatalog()
		if catalogPath != "" {
			f, err := os.Open(catalogPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if catalog, err = todo.LoadCatalog(f); err != nil {
				return fmt.Errorf("%s: %w", catalogPath, err)
			}
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		created, err := todo.NewService(store.NewTodoRepository(db)).SeedDefaults(cmd.Context(), catalog)
		if err != nil {
			return err
		}
		log.WithField("created", created).WithField("total", len(catalog)).Info("default todos seeded")
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d default todos (%d already present)\n", created, len(catalog)-created)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog to seed instead of the built-in one")
	rootCmd.AddCommand(seedCmd)
}
