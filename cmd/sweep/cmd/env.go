package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/picogrid/param-sweep/pkg/config"
	"github.com/picogrid/param-sweep/pkg/logger"
)

var (
	envAddName   string
	envAddURL    string
	envAddKeyVar string
	envRemoveYes bool
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage backend environments",
	Long:  `Manage named backend environments selectable with --env`,
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured environments",
	RunE:  listEnvironments,
}

var envAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new environment",
	RunE:  addEnvironment,
}

var envRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove an environment",
	Args:  cobra.MaximumNArgs(1),
	RunE:  removeEnvironment,
}

func init() {
	envAddCmd.Flags().StringVar(&envAddName, "name", "", "environment name")
	envAddCmd.Flags().StringVar(&envAddURL, "backend-url", "", "backend URL")
	envAddCmd.Flags().StringVar(&envAddKeyVar, "api-key-env", "", "name of the environment variable holding the API key")
	envRemoveCmd.Flags().BoolVarP(&envRemoveYes, "yes", "y", false, "do not ask for confirmation")

	envCmd.AddCommand(envListCmd)
	envCmd.AddCommand(envAddCmd)
	envCmd.AddCommand(envRemoveCmd)
}

func listEnvironments(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEnvironments()
	if err != nil {
		return fmt.Errorf("failed to load environments: %w", err)
	}

	if len(cfg.Environments) == 0 {
		logger.Info("No environments configured")
		return nil
	}

	table := logger.NewTable("NAME", "URL", "AUTHENTICATION")
	for _, env := range cfg.Environments {
		name := env.Name
		if env.Name == cfg.Selected {
			name += " *"
		}
		authInfo := "None"
		if env.APIKey != "" {
			authInfo = fmt.Sprintf("API Key (%s)", env.APIKey)
		}
		table.AddRow(name, env.URL, authInfo)
	}
	table.Print(cmd.OutOrStdout())
	return nil
}

func addEnvironment(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEnvironments()
	if err != nil {
		return fmt.Errorf("failed to load environments: %w", err)
	}

	env := config.Environment{Name: envAddName, URL: envAddURL, APIKey: envAddKeyVar}
	interactive := logger.IsTerminal(os.Stdin)

	if env.Name == "" {
		if !interactive {
			return errors.New("--name is required")
		}
		namePrompt := &survey.Input{
			Message: "Environment name:",
		}
		if err := survey.AskOne(namePrompt, &env.Name, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	if _, exists := cfg.Find(env.Name); exists {
		return fmt.Errorf("environment %s already exists", env.Name)
	}

	if env.URL == "" {
		if !interactive {
			return errors.New("--backend-url is required")
		}
		urlPrompt := &survey.Input{
			Message: "Backend URL:",
			Default: config.LocalURL(config.DefaultBackendPort),
		}
		if err := survey.AskOne(urlPrompt, &env.URL, survey.WithValidator(survey.Required)); err != nil {
			return err
		}

		apiKeyPrompt := &survey.Input{
			Message: "API key environment variable (optional):",
			Help:    "Name of the environment variable that contains the API key",
		}
		if err := survey.AskOne(apiKeyPrompt, &env.APIKey); err != nil {
			return err
		}
	}

	if env.URL, err = config.NormalizeURL(env.URL); err != nil {
		return err
	}
	if err := cfg.Add(env); err != nil {
		return err
	}

	if err := config.SaveEnvironments(cfg); err != nil {
		return fmt.Errorf("failed to save environments: %w", err)
	}

	logger.Successf("Environment %s added successfully", env.Name)
	return nil
}

func removeEnvironment(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEnvironments()
	if err != nil {
		return fmt.Errorf("failed to load environments: %w", err)
	}

	if len(cfg.Environments) == 0 {
		logger.Info("No environments to remove")
		return nil
	}

	var selected string
	if len(args) == 1 {
		selected = args[0]
	} else {
		names := make([]string, len(cfg.Environments))
		for i, env := range cfg.Environments {
			names[i] = env.Name
		}

		prompt := &survey.Select{
			Message: "Select environment to remove:",
			Options: names,
		}
		if err := survey.AskOne(prompt, &selected); err != nil {
			return err
		}
	}

	if _, ok := cfg.Find(selected); !ok {
		return fmt.Errorf("environment %s not found", selected)
	}

	if !envRemoveYes {
		var confirm bool
		confirmPrompt := &survey.Confirm{
			Message: fmt.Sprintf("Are you sure you want to remove %s?", selected),
			Default: false,
		}
		if err := survey.AskOne(confirmPrompt, &confirm); err != nil {
			return err
		}
		if !confirm {
			logger.Info("Removal cancelled")
			return nil
		}
	}

	cfg.Remove(selected)

	if err := config.SaveEnvironments(cfg); err != nil {
		return fmt.Errorf("failed to save environments: %w", err)
	}

	logger.Successf("Environment %s removed successfully", selected)
	return nil
}
