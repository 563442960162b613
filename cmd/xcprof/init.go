package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/xcprof/internal/config"
	"github.com/ludo-technologies/xcprof/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate an xcprof configuration file",
		Long: `Generate a documented xcprof configuration file.

By default, creates xcprof.yaml in the current directory using the standard
thresholds (warn 50 ms, fail 100 ms). Use --interactive for a guided setup.

Examples:
  # Create xcprof.yaml in current directory
  xcprof init

  # Custom output path
  xcprof init --config ci/xcprof.yaml

  # Overwrite existing file
  xcprof init --force

  # Thresholds only
  xcprof init --minimal

  # Interactive setup wizard
  xcprof init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with thresholds only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")
	cmd.Flags().String("layout", string(config.ProjectLayoutPlain),
		"Dependency layout: plain, cocoapods, carthage, swiftpm")
	cmd.Flags().String("strictness", string(config.StrictnessStandard),
		"Threshold preset: relaxed, standard, strict")
	cmd.Flags().String("sink", constants.SinkConsole,
		"Default comment sink: console, actions, github")

	return cmd
}

type initChoices struct {
	layout     config.ProjectLayout
	strictness config.Strictness
	sink       string
	configPath string
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	layout, _ := cmd.Flags().GetString("layout")
	strictness, _ := cmd.Flags().GetString("strictness")
	sink, _ := cmd.Flags().GetString("sink")

	choices := initChoices{
		layout:     config.ProjectLayout(layout),
		strictness: config.Strictness(strictness),
		sink:       sink,
		configPath: configPath,
	}

	out := cmd.OutOrStdout()
	if interactive {
		var err error
		choices, err = runInteractiveSetup(out, configPath)
		if err != nil {
			return err
		}
	}

	if _, ok := config.GetProjectPresets()[choices.layout]; !ok {
		return fmt.Errorf("unknown layout %q", choices.layout)
	}
	if _, ok := config.GetStrictnessPresets()[choices.strictness]; !ok {
		return fmt.Errorf("unknown strictness %q", choices.strictness)
	}
	switch choices.sink {
	case constants.SinkConsole, constants.SinkActions, constants.SinkGitHub:
	default:
		return fmt.Errorf("unknown sink %q", choices.sink)
	}

	configPath = choices.configPath
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(choices.layout, choices.strictness, choices.sink)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'xcprof report <product>' after a build with -Xfrontend -debug-time-function-bodies.")

	return nil
}

func runInteractiveSetup(out io.Writer, defaultConfigPath string) (initChoices, error) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "xcprof Configuration Setup")
	fmt.Fprintln(out, "==========================")
	fmt.Fprintln(out)

	type option struct {
		Label       string
		Description string
		Value       string
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	selectOne := func(label string, items []option) (string, error) {
		prompt := promptui.Select{Label: label, Items: items, Templates: templates}
		idx, _, err := prompt.Run()
		if err != nil {
			return "", err
		}
		fmt.Fprintln(out)
		return items[idx].Value, nil
	}

	layout, err := selectOne("How does the project pull in dependencies?", []option{
		{"Plain", "No vendored dependencies", string(config.ProjectLayoutPlain)},
		{"CocoaPods", "Ignore Pods/", string(config.ProjectLayoutCocoaPods)},
		{"Carthage", "Ignore Carthage/", string(config.ProjectLayoutCarthage)},
		{"Swift Package Manager", "Ignore .build/ and SourcePackages/", string(config.ProjectLayoutSwiftPM)},
	})
	if err != nil {
		return initChoices{}, fmt.Errorf("layout selection cancelled: %w", err)
	}

	strictness, err := selectOne("How strict should the thresholds be?", []option{
		{"Standard (recommended)", "warn 50 ms, fail 100 ms", string(config.StrictnessStandard)},
		{"Relaxed", "warn 100 ms, fail 500 ms", string(config.StrictnessRelaxed)},
		{"Strict", "warn 25 ms, fail 50 ms", string(config.StrictnessStrict)},
	})
	if err != nil {
		return initChoices{}, fmt.Errorf("strictness selection cancelled: %w", err)
	}

	sink, err := selectOne("Where should results be posted?", []option{
		{"Console", "Print to the terminal", constants.SinkConsole},
		{"GitHub Actions", "Workflow annotations", constants.SinkActions},
		{"GitHub", "Pull request comments (needs GITHUB_TOKEN)", constants.SinkGitHub},
	})
	if err != nil {
		return initChoices{}, fmt.Errorf("sink selection cancelled: %w", err)
	}

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}
	outputPath, err := outputPrompt.Run()
	if err != nil {
		return initChoices{}, fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Fprintln(out)
	return initChoices{
		layout:     config.ProjectLayout(layout),
		strictness: config.Strictness(strictness),
		sink:       sink,
		configPath: outputPath,
	}, nil
}
