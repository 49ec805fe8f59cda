package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/unic-leads/internal/config"
)

func checkEnvCmd() *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "check-env",
		Short: "Report which relay and store settings are present (secrets are not printed)",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return printReport(os.Stdout, config.Diagnose(cfg, time.Now()), format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printReport(w io.Writer, r config.EnvReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "pretty":
		fmt.Fprintf(w, "Environment: %s\n", r.Environment)
		fmt.Fprintf(w, "Timestamp:   %s\n\n", r.Timestamp)
		fmt.Fprintf(w, "Store:       %s (%s)\n", r.Store.Driver, r.Store.Collection)
		fmt.Fprintf(w, "Relay mode:  %s\n\n", r.RelayMode)
		fmt.Fprintf(w, "Telegram bot token: %s (length %d)\n", yesNo(r.Telegram.BotTokenConfigured), r.Telegram.BotTokenLength)
		fmt.Fprintf(w, "Telegram chat id:   %s (%s)\n", yesNo(r.Telegram.ChatIDConfigured), r.Telegram.ChatIDValue)
		for _, k := range r.Telegram.SortedKeys() {
			fmt.Fprintf(w, "  %s=%s\n", k, r.Telegram.AllTelegramVars[k])
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (use pretty or json)", format)
	}
}

func yesNo(ok bool) string {
	if ok {
		return "configured"
	}
	return "missing"
}
