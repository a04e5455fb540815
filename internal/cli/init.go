package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uetools/ueup/internal/config"
)

// newInitCmd creates the config file, prompting for anything not passed
// as a flag.
func newInitCmd(a *app) *cobra.Command {
	var (
		enginePath  string
		projectFile string
		riderPath   string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the ueup config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = config.FileName
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", path)
				}
			}

			prompter := newPrompter(a)
			cfg := &config.Config{
				EnginePath:  enginePath,
				ProjectFile: projectFile,
				RiderPath:   riderPath,
			}
			var err error
			if cfg.EnginePath == "" {
				cfg.EnginePath, err = prompter.ask("Unreal Engine root directory")
				if err != nil {
					return err
				}
			}
			if cfg.ProjectFile == "" {
				cfg.ProjectFile, err = prompter.ask("Path to the .uproject file")
				if err != nil {
					return err
				}
			}

			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&enginePath, "engine", "", "Unreal Engine root directory")
	cmd.Flags().StringVar(&projectFile, "project", "", "path to the .uproject file")
	cmd.Flags().StringVar(&riderPath, "rider", "", "Rider executable (discovered when unset)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

// createConfigInteractively is the prompt-on-missing path used by the
// open command when no config exists yet. The answers are persisted to
// the default location so the next run skips the questions.
func (a *app) createConfigInteractively() (*config.Config, error) {
	a.log.Info("no config found, creating one")

	prompter := newPrompter(a)
	cfg := &config.Config{}
	var err error
	if cfg.EnginePath, err = prompter.ask("Unreal Engine root directory"); err != nil {
		return nil, err
	}
	if cfg.ProjectFile, err = prompter.ask("Path to the .uproject file"); err != nil {
		return nil, err
	}

	path := a.configPath
	if path == "" {
		path = config.FileName
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	a.log.WithField("path", path).Info("config written")

	// Re-read so environment overrides and defaults apply the same way
	// they would on a normal run.
	return config.LoadFrom(path)
}

// prompter reads non-empty answers off the CLI's input stream.
type prompter struct {
	in  *bufio.Reader
	app *app
}

func newPrompter(a *app) *prompter {
	return &prompter{in: bufio.NewReader(a.stdin), app: a}
}

// ask repeats the question until it gets a non-blank answer.
func (p *prompter) ask(question string) (string, error) {
	for {
		fmt.Fprintf(p.app.stderr, "%s: ", question)
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read answer: %w", err)
		}
		answer := strings.TrimSpace(line)
		if answer != "" {
			return answer, nil
		}
		if err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
	}
}
