// Package cmd wires the pixlens CLI: commands for reading the canvas,
// writing pixels, and running the auto-drawer.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pixlens/pixlens/internal/config"
	"github.com/pixlens/pixlens/internal/observability"
)

const binaryName = "pixlens"

var (
	cfgFile string
	verbose bool

	cfg *config.Config

	// Version info set by main package.
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by the main package to set version information.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   binaryName,
	Short: "Client for the shared-canvas pixel API",
	Long: `pixlens is a client for a shared-canvas pixel-drawing API.

It reads the canvas, writes individual pixels, and can automatically
converge a region of the canvas toward a target image, all while obeying
the server's per-endpoint rate limits.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/pixlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().String("token", "", "API bearer token")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL")

	_ = viper.BindPFlag("api.token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
}

// initConfig initializes the logger and loads the layered configuration.
func initConfig() {
	observability.InitCLILogger(binaryName, verbose)

	loaded, err := config.Load(cfgFile, viper.GetViper())
	if err != nil {
		ExitWithCodeStderr(exitCodeConfigInvalid, "Failed to load configuration", err)
	}
	cfg = loaded
}
