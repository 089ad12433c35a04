package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Spreadsheet tabs served by the classification sheet.
const (
	ClientsTab = "classificacao_clientes3"
	OrdersTab  = "pedidos_com_id2"
)

const (
	defaultClassificationSheetID = "1ZKgy7jCXUzkU0oaOw5IdnezKuJrCtGOeqiks2el0olE"
	defaultSurveySheetID         = "1Z-Q2l75JMSwvFYI7EY4DqLywbDhCTH_2rlYXD4QdaGw"
	defaultCacheTTLSeconds       = 300
)

// Colors is the Papello brand palette handed to the frontend chart payloads.
var Colors = map[string]string{
	"primary":     "#96CA00",
	"secondary":   "#84A802",
	"success":     "#96CA00",
	"warning":     "#f59e0b",
	"danger":      "#ef4444",
	"info":        "#3b82f6",
	"light_green": "#C5DF56",
	"premium":     "#8b5cf6",
	"gold":        "#f59e0b",
	"silver":      "#6b7280",
	"bronze":      "#dc2626",
}

func init() {
	// Load env from .env
	godotenv.Load()
}

func ClassificationSheetID() string {
	if v := os.Getenv("CLASSIFICACAO_SHEET_ID"); v != "" {
		return v
	}
	return defaultClassificationSheetID
}

func SurveySheetID() string {
	if v := os.Getenv("PESQUISA_SHEET_ID"); v != "" {
		return v
	}
	return defaultSurveySheetID
}

func CacheTTL() time.Duration {
	if v := os.Getenv("CACHE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return defaultCacheTTLSeconds * time.Second
}

// ActionsLogFile is the append-only audit log of CS actions taken.
// It is never read by the metrics core.
func ActionsLogFile() string {
	if v := os.Getenv("ACTIONS_LOG_FILE"); v != "" {
		return v
	}
	return "cs_actions_log.json"
}
