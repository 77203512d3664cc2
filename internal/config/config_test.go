package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agrodash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultSheetName, cfg.Source.Sheet)
	assert.Equal(t, ",", cfg.Source.DecimalSeparator)
	assert.Equal(t, ".", cfg.Source.ThousandsSeparator)
	assert.Equal(t, DefaultDateLayouts(), cfg.Source.DateLayouts)
	assert.Equal(t, "Dólar Compra", cfg.Source.Columns["COMPRA"])
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
	assert.Equal(t, int64(DefaultSourceMaxBytes), cfg.Source.MaxBytes)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("AGRO_SERVER_PORT", "9191")
	t.Setenv("AGRO_SOURCE_LOCATION", "data/precos.xlsx")
	t.Setenv("AGRO_SOURCE_TIMEOUT", "5s")
	t.Setenv("AGRO_SOURCE_MAX_BYTES", "1048576")
	t.Setenv("AGRO_LOGGING_LEVEL", "debug")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "data/precos.xlsx", cfg.Source.Location)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, int64(1<<20), cfg.Source.MaxBytes)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched fields keep their defaults
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 7000
source:
  location: planilha.xlsx
  sheet: Precos
  decimal_separator: "."
  thousands_separator: ","
`)
	t.Setenv("AGRO_SOURCE_SHEET", "Dados")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "planilha.xlsx", cfg.Source.Location)
	assert.Equal(t, "Dados", cfg.Source.Sheet, "env takes precedence over the file")
	assert.Equal(t, ".", cfg.Source.DecimalSeparator)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid port", map[string]string{"AGRO_SERVER_PORT": "70000"}, "invalid server port"},
		{"bad log level", map[string]string{"AGRO_LOGGING_LEVEL": "loud"}, "invalid log level"},
		{"same separators", map[string]string{"AGRO_SOURCE_THOUSANDS_SEPARATOR": ","}, "must differ"},
		{"long decimal separator", map[string]string{"AGRO_SOURCE_DECIMAL_SEPARATOR": ",,"}, "single character"},
		{"unknown kind", map[string]string{"AGRO_SOURCE_KIND": "ftp"}, "unsupported source kind"},
		{"zero max bytes", map[string]string{"AGRO_SOURCE_MAX_BYTES": "0"}, "max bytes must be positive"},
		{"negative max bytes", map[string]string{"AGRO_SOURCE_MAX_BYTES": "-1"}, "max bytes must be positive"},
		{"bad trace exporter", map[string]string{"AGRO_TELEMETRY_TRACE_EXPORTER": "otlp"}, "unsupported trace exporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFile("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSourceConfig_ResolvedKind(t *testing.T) {
	tests := []struct {
		kind     string
		location string
		want     string
	}{
		{"", "data/precos.xlsx", SourceExcel},
		{"", "https://example.com/precos.xlsx", SourceExcel},
		{"", "exports/dados_agro.CSV", SourceCSV},
		{"", "sheets:1AbC", SourceSheets},
		{SourceCSV, "anything.xlsx", SourceCSV},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			s := SourceConfig{Kind: tt.kind, Location: tt.location}
			assert.Equal(t, tt.want, s.ResolvedKind())
		})
	}
}
