package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/gitrepo/internal/core/styles"
	"github.com/hay-kot/gitrepo/pkg/iojson"
)

type ConfigCmd struct {
	flags  *Flags
	format string
}

// NewConfigCmd creates the config command group.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config commands to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "gitrepo config validate [options]",
				Description: "Validates the configuration file and checks that the git executable resolves.",
				Flags:       []cli.Flag{formatFlag(&cmd.format)},
				Action:      cmd.runValidate,
			},
			{
				Name:      "show",
				Usage:     "Print the effective configuration as YAML",
				UsageText: "gitrepo config show",
				Action:    cmd.runShow,
			},
		},
	})

	return app
}

type fieldErrorJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigCmd) runValidate(_ context.Context, c *cli.Command) error {
	format, err := iojson.ParseFormat(cmd.format)
	if err != nil {
		return err
	}

	var fieldErrs []fieldErrorJSON
	if err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		var fe criterio.FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		for _, e := range fe {
			fieldErrs = append(fieldErrs, fieldErrorJSON{Field: e.Field, Message: e.Err.Error()})
		}
	}
	warnings := cmd.flags.Config.Warnings()

	out := c.Root().Writer
	if format == iojson.FormatJSON {
		if err := iojson.WriteWith(out, c.Root().ErrWriter, struct {
			Valid    bool             `json:"valid"`
			Errors   []fieldErrorJSON `json:"errors,omitempty"`
			Warnings any              `json:"warnings,omitempty"`
		}{
			Valid:    len(fieldErrs) == 0,
			Errors:   fieldErrs,
			Warnings: warnings,
		}); err != nil {
			return err
		}
	} else {
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "%s %s: %s\n", styles.TextWarningStyle.Render("warn"), w.Item, w.Message)
		}
		for _, e := range fieldErrs {
			_, _ = fmt.Fprintf(out, "%s %s: %s\n", styles.TextErrorStyle.Render("error"), e.Field, e.Message)
		}
		if len(fieldErrs) == 0 {
			_, _ = fmt.Fprintln(out, styles.TextSuccessStyle.Render("Configuration is valid"))
		}
	}

	if len(fieldErrs) > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *ConfigCmd) runShow(_ context.Context, c *cli.Command) error {
	enc := yaml.NewEncoder(c.Root().Writer)
	enc.SetIndent(2)
	if err := enc.Encode(cmd.flags.Config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
