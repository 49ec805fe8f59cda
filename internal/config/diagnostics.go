package config

import (
	"os"
	"sort"
	"strings"
	"time"
)

const notSet = "NOT_SET"

// EnvReport is what check-env prints. Secrets are reported as set / not set
// and by length only.
type EnvReport struct {
	Environment string         `json:"environment"`
	Timestamp   string         `json:"timestamp"`
	Telegram    TelegramReport `json:"telegram"`
	Store       StoreReport    `json:"store"`
	RelayMode   string         `json:"relayMode"`
}

type TelegramReport struct {
	BotTokenConfigured bool              `json:"botTokenConfigured"`
	ChatIDConfigured   bool              `json:"chatIdConfigured"`
	BotTokenLength     int               `json:"botTokenLength"`
	ChatIDValue        string            `json:"chatIdValue"`
	AllTelegramVars    map[string]string `json:"allTelegramVars"`
}

type StoreReport struct {
	Driver     string `json:"driver"`
	Collection string `json:"collection"`
}

// Diagnose builds the environment report for cfg.
func Diagnose(cfg *Config, now time.Time) EnvReport {
	chatID := cfg.Telegram.ChatID
	if chatID == "" {
		chatID = notSet
	}

	return EnvReport{
		Environment: cfg.AppEnv,
		Timestamp:   now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Telegram: TelegramReport{
			BotTokenConfigured: cfg.Telegram.BotToken != "",
			ChatIDConfigured:   cfg.Telegram.ChatID != "",
			BotTokenLength:     len(cfg.Telegram.BotToken),
			ChatIDValue:        chatID,
			AllTelegramVars:    telegramVars(os.Environ()),
		},
		Store: StoreReport{
			Driver:     cfg.Store.Driver,
			Collection: cfg.Store.Collection,
		},
		RelayMode: cfg.Relay.Mode,
	}
}

func telegramVars(environ []string) map[string]string {
	out := make(map[string]string)
	for _, kv := range environ {
		key, value, _ := strings.Cut(kv, "=")
		if !strings.Contains(key, "TELEGRAM") {
			continue
		}
		if value == "" {
			out[key] = notSet
		} else {
			out[key] = "SET"
		}
	}
	return out
}

// SortedKeys is used by the CLI to print the variable map deterministically.
func (t TelegramReport) SortedKeys() []string {
	keys := make([]string, 0, len(t.AllTelegramVars))
	for k := range t.AllTelegramVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
