package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easeaico/her-line/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate environment configuration",
	RunE:  runValidate,
}

type envCheck struct {
	name     string
	envVar   string
	required bool
}

var envChecks = []envCheck{
	{"Channel Secret", "LINE_CHANNEL_SECRET", true},
	{"Channel Access Token", "LINE_CHANNEL_ACCESS_TOKEN", true},
	{"API Endpoint", "LINE_API_ENDPOINT", false},
	{"Listen Address", "LISTEN_ADDR", false},
	{"Port", "PORT", false},
	{"Persona Directory", "PERSONA_DIR", false},
	{"Default Persona", "DEFAULT_PERSONA", false},
	{"Max Reply Runes", "MAX_REPLY_RUNES", false},
	{"Delivery Timeout", "DELIVERY_TIMEOUT_SECONDS", false},
	{"Mood Tone", "MOOD_TONE", false},
	{"Log Level", "LOG_LEVEL", false},
	{"Traces Exporter", "OTEL_TRACES_EXPORTER", false},
}

func runValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Validating configuration...")

	for _, c := range envChecks {
		value := os.Getenv(c.envVar)
		switch {
		case value == "" && c.required:
			fmt.Fprintf(out, "  ✗ %s (%s): NOT SET (required)\n", c.name, c.envVar)
		case value == "":
			fmt.Fprintf(out, "  - %s (%s): not set (optional, will use default)\n", c.name, c.envVar)
		default:
			fmt.Fprintf(out, "  ✓ %s (%s): %s\n", c.name, c.envVar, displayValue(c.envVar, value))
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(out, "\nConfiguration validation failed!")
		return err
	}

	personas, err := loadPersonas(cfg.PersonaDir)
	if err != nil {
		fmt.Fprintln(out, "\nPersona validation failed!")
		return err
	}
	fmt.Fprintf(out, "  ✓ Personas: %d loaded\n", len(personas))

	fmt.Fprintln(out, "\nConfiguration is valid!")
	return nil
}

func displayValue(envVar, value string) string {
	lower := strings.ToLower(envVar)
	if strings.Contains(lower, "secret") || strings.Contains(lower, "token") || strings.Contains(lower, "key") {
		return maskValue(value)
	}
	return value
}

func maskValue(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "****" + value[len(value)-4:]
}
