package main

import (
	"context"
	"fmt"
	"os"

	"jokebox/internal/config"
	"jokebox/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that the database is reachable",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadServer()
		if err != nil {
			logger.Fatal("Invalid configuration", zap.Error(err))
		}

		st, err := store.Open(cfg.DB)
		if err != nil {
			logger.Fatal("Failed to init store", zap.Error(err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.ConnectTimeout)
		defer cancel()

		if err := st.Probe(ctx); err != nil {
			fmt.Println("Error connecting to the database:", err)
			if hints := store.ConnectionHints(err); len(hints) > 0 {
				fmt.Println("Database connection refused. Please check if:")
				for i, h := range hints {
					fmt.Printf("%d. %s\n", i+1, h)
				}
			}
			st.Close()
			os.Exit(1)
		}
		st.Close()
		fmt.Println("Successfully connected to database")
	},
}
