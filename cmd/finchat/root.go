package main

import (
	"fmt"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/finchat/finchat/config"
	"github.com/finchat/finchat/logging"
	"github.com/finchat/finchat/model"
	modelanthropic "github.com/finchat/finchat/model/anthropic"
	modelopenai "github.com/finchat/finchat/model/openai"
)

var rootCmd = &cobra.Command{
	Use:   "finchat",
	Short: "Finchat is a conversational financial assistant",
	Long: `Finchat answers financial questions with an LLM that can call
deterministic calculators for projections, loans, options and more.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func buildLogger(cfg *config.Config) logging.Logger {
	return logging.New(os.Stderr, cfg.Logging.Format, cfg.Logging.Level)
}

func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Model.Provider {
	case config.ProviderOpenAI:
		return modelopenai.NewModel(func(o *modelopenai.Options) {
			o.Model = cfg.Model.Name
			o.APIKey = cfg.Model.APIKey
		}), nil
	case config.ProviderAnthropic:
		return modelanthropic.NewModel(func(o *modelanthropic.Options) {
			o.Model = anthropicsdk.Model(cfg.Model.Name)
			o.APIKey = cfg.Model.APIKey
		}), nil
	case config.ProviderMock:
		return model.NewMockModel(cfg.Model.Name), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}
