package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	addr     string
	proto    string
	maxDepth int
	include  string
	exclude  string
	logLevel string

	// Shared state set during PersistentPreRun
	cfg *Config
	zl  zerolog.Logger
)

// rootCmd is the base command for netdebug.
var rootCmd = &cobra.Command{
	Use:   "netdebug",
	Short: "Network interface debugger: send lines, watch replies",
	Long: `netdebug talks to a device or service over a single TCP or UDP socket.
Outbound lines are queued and written by a background worker; inbound
messages are filtered by optional include/exclude patterns and printed
with their arrival time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		path := cfgFile
		if path == "" {
			path = DefaultPath()
		}
		var err error
		cfg, err = Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Override config with flags
		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Addr = addr
		}
		if flags.Changed("proto") {
			cfg.Proto = proto
		}
		if flags.Changed("depth") {
			cfg.MaxDepth = maxDepth
		}
		if flags.Changed("include") {
			cfg.Include = include
		}
		if flags.Changed("exclude") {
			cfg.Exclude = exclude
		}
		if flags.Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		zl, err = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
		return err
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.netdebug/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&addr, "addr", "a", "", "remote address host:port")
	rootCmd.PersistentFlags().StringVarP(&proto, "proto", "p", "", "transport: tcp or udp (default \"tcp\")")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "depth", 0, "outbound queue depth (default 1000)")
	rootCmd.PersistentFlags().StringVar(&include, "include", "", "only show inbound messages matching this regexp")
	rootCmd.PersistentFlags().StringVar(&exclude, "exclude", "", "hide inbound messages matching this regexp")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default \"info\")")
}
