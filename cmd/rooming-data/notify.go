package main

import (
	"encoding/json"
	"fmt"
	"time"

	"rooming-data/internal/common/logger"
	"rooming-data/internal/common/mqtt"

	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify-reload",
	Short: "Ask running servers to reload the catalog over MQTT",
	Long: `notify-reload publishes one message on the configured reload topic.
Every server subscribed with mqtt.enabled reloads its catalog.`,
	Args: cobra.NoArgs,
	RunE: runNotify,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

// reloadRequest is the notify-reload payload. Subscribers ignore the body.
type reloadRequest struct {
	Type        string `json:"type"`
	RequestedAt int64  `json:"requested_at"`
}

func runNotify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logger.NewLoggerTo(cfg.Log.Level, cfg.Log.Format, "rooming-data", logOutput(false))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client, err := mqtt.NewClient(&cfg.MQTT.MQTTConfig, log)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	payload, err := json.Marshal(reloadRequest{Type: "catalog.reload", RequestedAt: time.Now().Unix()})
	if err != nil {
		return err
	}
	if err := client.Publish(cfg.MQTT.ReloadTopic, cfg.MQTT.QoS, false, payload); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published reload request to %s\n", cfg.MQTT.ReloadTopic)
	return nil
}
