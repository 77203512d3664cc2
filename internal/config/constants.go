package config

import "time"

// Application constants
const (
	AppName    = "agrodash"
	AppTitle   = "Dashboard Interativo: O Agro aplicado"
	AppVersion = "1.2.0"

	// EnvPrefix namespaces every environment variable (AGRO_SERVER_PORT, ...).
	EnvPrefix = "AGRO"

	// Source defaults
	DefaultSourceLocation = "https://github.com/jonhrib/Agro_2024/raw/refs/heads/main/data/ATUALIZA%C3%87%C3%95ES_Final.xlsx"
	DefaultSheetName      = "Página1"
	DefaultSourceTimeout  = 30 * time.Second
	DefaultSourceMaxBytes = 50 << 20
	DefaultDecimalSep     = ","
	DefaultThousandsSep   = "."

	// Paths relative to the working directory
	DefaultOutputDir = "exports"
	DefaultLogsDir   = "logs"

	// Server defaults
	DefaultPort            = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultRequestTimeout  = 20 * time.Second

	// Rate limiting
	DefaultRateLimitRPS   = 50
	DefaultRateLimitBurst = 25

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Source kinds
const (
	SourceExcel  = "excel"
	SourceSheets = "sheets"
	SourceCSV    = "csv"
)

// DefaultDateLayouts are tried in order when a date cell is not an Excel
// serial number.
func DefaultDateLayouts() []string {
	return []string{"2006-01-02", "02/01/2006", "2006-01-02 15:04:05"}
}

// DefaultColumnMapping maps the source sheet headers to canonical names.
func DefaultColumnMapping() map[string]string {
	return map[string]string{
		"DATA":   "Data",
		"SOJA":   "Soja",
		"MILHO":  "Milho",
		"TRIGO":  "Trigo",
		"COMPRA": "Dólar Compra",
		"VENDA":  "Dólar Venda",
	}
}
