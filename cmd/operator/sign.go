package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/easeaico/her-line/internal/line"
)

var (
	signFile   string
	signSecret string
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Print the callback signature for a request body",
	Long: `Print the base64 HMAC-SHA256 signature of a request body, as sent in
the X-Line-Signature header. The secret defaults to LINE_CHANNEL_SECRET.`,
	RunE: runSign,
}

func init() {
	signCmd.Flags().StringVar(&signFile, "file", "-", "Body file, - for stdin")
	signCmd.Flags().StringVar(&signSecret, "secret", "", "Channel secret (default $LINE_CHANNEL_SECRET)")
}

func runSign(cmd *cobra.Command, _ []string) error {
	secret := signSecret
	if secret == "" {
		secret = os.Getenv("LINE_CHANNEL_SECRET")
	}
	if secret == "" {
		return fmt.Errorf("channel secret is required (--secret or LINE_CHANNEL_SECRET)")
	}

	var (
		body []byte
		err  error
	)
	if signFile == "-" {
		body, err = io.ReadAll(cmd.InOrStdin())
	} else {
		body, err = os.ReadFile(signFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), line.Sign(secret, body))
	return nil
}
