package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/killallgit/mull/pkg/config"
	"github.com/killallgit/mull/pkg/headless"
	"github.com/killallgit/mull/pkg/logger"
	"github.com/killallgit/mull/pkg/tui"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mull",
	Short: "A terminal chat client that shows its work",
	Long: `mull is a terminal chat client for Ollama-compatible backends.
Reasoning traces stream into a collapsible thinking box alongside the
response, and conversations can be persisted to Postgres.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := viper.GetString("prompt")
		headlessMode := viper.GetBool("headless")

		if headlessMode || prompt != "" {
			return runHeadless(cmd.Context(), prompt)
		}
		return tui.StartApp(cmd.Context())
	},
}

func runHeadless(ctx context.Context, prompt string) error {
	if prompt == "" {
		return fmt.Errorf("headless mode requires --prompt")
	}

	runner, err := headless.NewRunner(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Cleanup(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cleanup error: %v\n", err)
		}
	}()

	return runner.Run(ctx, prompt)
}

func Execute() {
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.mull/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().StringP("prompt", "p", "", "execute a prompt directly without entering the TUI")
	viper.BindPFlag("prompt", rootCmd.PersistentFlags().Lookup("prompt"))

	rootCmd.PersistentFlags().BoolP("headless", "H", false, "run without the TUI (requires --prompt)")
	viper.BindPFlag("headless", rootCmd.PersistentFlags().Lookup("headless"))

	rootCmd.PersistentFlags().Bool("show-thinking", true, "display reasoning traces in a collapsible box")
	viper.BindPFlag("show_thinking", rootCmd.PersistentFlags().Lookup("show-thinking"))

	rootCmd.PersistentFlags().StringP("model", "m", "", "model to chat with")
	viper.BindPFlag("provider.model", rootCmd.PersistentFlags().Lookup("model"))

	rootCmd.PersistentFlags().StringP("resume", "r", "", "conversation ID to resume (requires a database)")
	viper.BindPFlag("resume", rootCmd.PersistentFlags().Lookup("resume"))
}

func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}
