package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/iksnae/pephub-client/internal"
	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"
)

var (
	loginManual bool
	loginNoQR   bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to PEPhub with the OAuth device flow",
	Long: `Log in to PEPhub using the identity provider's device flow.

The command prints a user code and a verification URL (also as a QR code).
Open the URL, enter the code and authorize the application. By default the
client polls until you do; with --manual it waits for you to press Enter.

The session token is stored in {data_dir}/jwt.txt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		loginCfg := cfg
		if loginManual {
			loginCfg.DeviceFlow.Mode = internal.DeviceFlowManual
		}

		auth := internal.NewAuthenticator(loginCfg, newRequestManager())
		auth.Prompt = func(c internal.DeviceCodeChallenge) {
			printer.Info(fmt.Sprintf("User verification code: %s", c.UserCode))
			printer.Info(fmt.Sprintf("Open %s and enter the code to authorize this device.", c.VerificationURI))
			if !loginNoQR {
				qrterminal.GenerateHalfBlock(c.VerificationURI, qrterminal.L, printer.Out())
			}
			if loginCfg.DeviceFlow.Mode == internal.DeviceFlowPoll {
				printer.Info("Waiting for authorization...")
			}
		}
		auth.Confirm = confirmFromInput(cmd.InOrStdin(), printer.Out())

		token, err := auth.Login(cmd.Context())
		if err != nil {
			return err
		}
		if err := newCredentialStore().Save(token); err != nil {
			return err
		}
		printer.Success("Successfully logged in!")
		return nil
	},
}

// confirmFromInput blocks until a line is read from in or ctx ends
func confirmFromInput(in io.Reader, out io.Writer) func(ctx context.Context) error {
	reader := bufio.NewReader(in)
	return func(ctx context.Context) error {
		fmt.Fprint(out, "Press Enter after you have authorized the device... ")
		done := make(chan error, 1)
		go func() {
			_, err := reader.ReadString('\n')
			if err == io.EOF {
				err = fmt.Errorf("input closed before authorization was confirmed")
			}
			done <- err
		}()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			return err
		}
	}
}

func init() {
	loginCmd.Flags().BoolVar(&loginManual, "manual", false, "wait for Enter instead of polling the provider")
	loginCmd.Flags().BoolVar(&loginNoQR, "no-qr", false, "do not print the verification URL as a QR code")
	rootCmd.AddCommand(loginCmd)
}
