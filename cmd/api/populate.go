package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PratikDhanave/edge-event-service/internal/client"
)

var (
	populateFile string
	populateURL  string
)

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Post every event in a JSON array file to a running service",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := loadLogger()
		if err != nil {
			return err
		}

		f, err := os.Open(populateFile)
		if err != nil {
			return err
		}
		defer f.Close()

		events, err := client.ReadEvents(f)
		if err != nil {
			return err
		}

		res, err := client.New(populateURL).Populate(cmd.Context(), events, logger)
		if err != nil {
			return err
		}
		logger.Info("events populated", "posted", res.Posted, "failed", res.Failed)
		if res.Failed > 0 {
			return fmt.Errorf("%d of %d events were rejected", res.Failed, len(events))
		}
		return nil
	},
}

func init() {
	populateCmd.Flags().StringVarP(&populateFile, "file", "f", "events.json", "JSON array of events")
	populateCmd.Flags().StringVar(&populateURL, "url", "http://localhost:8000", "service base URL")
}
