package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/juridico/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the release string printed by the version command
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "juridico",
	Short: "Juridico - classification of Brazilian court publications",
	Long: `Juridico reads court publication files (PDF, DOCX, XLSX, HTML, TXT),
splits them at "Publicação: i de n" markers and classifies every publication:

- Document type from the keyword catalog
- CNJ process number and publication date
- Responsible sector from the sector taxonomy

Records can be persisted, reviewed, exported to a spreadsheet and served
over an HTTP API.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "juridico %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.juridico/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".juridico"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// JURIDICO_STORE_PATH overrides store.path
	viper.SetEnvPrefix("JURIDICO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file and environment over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	bindEnvKeys()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// bindEnvKeys registers every config key so AutomaticEnv can see
// variables for keys absent from the config file.
func bindEnvKeys() {
	for _, key := range []string{
		"catalog.keywords_file", "catalog.sectors_file",
		"store.driver", "store.path",
		"cache.enabled", "cache.dir",
		"http.user_agent", "http.timeout", "http.respect_robots",
		"http.http_proxy", "http.https_proxy", "http.no_proxy",
		"concurrency.workers",
		"output.skip_unresolved", "output.store_content",
		"logging.level",
		"server.addr",
	} {
		_ = viper.BindEnv(key)
	}
}
