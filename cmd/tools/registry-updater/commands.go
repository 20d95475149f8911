package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"scholarship-workers/internal/common/validation"
	"scholarship-workers/pkg/registry"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered activities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return err
		}
		return listActivities(cmd.OutOrStdout(), reg)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <taskType>",
	Short: "Print one activity as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return err
		}
		a, ok := reg.Find(args[0])
		if !ok {
			return fmt.Errorf("no activity with taskType %q", args[0])
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check registry structure and compile every input schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return err
		}
		if err := validateRegistry(reg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil
	},
}

var checkVarsCmd = &cobra.Command{
	Use:   "check-vars <taskType> <file|->",
	Short: "Validate a job variables document against an activity's input schema",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return err
		}
		var doc []byte
		if args[1] == "-" {
			doc, err = io.ReadAll(cmd.InOrStdin())
		} else {
			doc, err = os.ReadFile(args[1])
		}
		if err != nil {
			return fmt.Errorf("read variables: %w", err)
		}
		if err := checkVars(reg, args[0], string(doc)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Variables are valid.")
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <taskType> <field> <value>",
	Short: "Update a field of an activity (status, version, description, timeout, retries)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return err
		}
		if err := setField(reg, args[0], args[1], args[2]); err != nil {
			return err
		}
		reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		if err := reg.Save(registryPath); err != nil {
			return fmt.Errorf("save registry: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s = %s\n", args[0], args[1], args[2])
		return nil
	},
}

func listActivities(w io.Writer, reg *registry.ActivityRegistry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK TYPE\tVERSION\tSTATUS\tTIMEOUT\tERROR CODES")
	for _, a := range reg.Activities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			a.TaskType, a.Version, a.ImplementationStatus, a.Timeout, strings.Join(a.ErrorCodes, ","))
	}
	return tw.Flush()
}

func validateRegistry(reg *registry.ActivityRegistry) error {
	if len(reg.Activities) == 0 {
		return errors.New("registry contains no activities")
	}

	problems := reg.Check()
	for _, a := range reg.Activities {
		if a.ID == "" {
			problems = append(problems, fmt.Sprintf("activity with taskType %q has no id", a.TaskType))
		}
		if a.DisplayName == "" {
			problems = append(problems, fmt.Sprintf("activity %q has no displayName", a.ID))
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				problems = append(problems, fmt.Sprintf("activity %q has invalid timeout %q", a.ID, a.Timeout))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("registry validation failed:\n  %s", strings.Join(problems, "\n  "))
	}

	if _, err := validation.NewValidator(reg); err != nil {
		return err
	}
	return nil
}

func checkVars(reg *registry.ActivityRegistry, taskType, doc string) error {
	if _, ok := reg.Find(taskType); !ok {
		return fmt.Errorf("no activity with taskType %q", taskType)
	}
	v, err := validation.NewValidator(reg)
	if err != nil {
		return err
	}
	return v.ValidateJSON(taskType, doc)
}

func setField(reg *registry.ActivityRegistry, taskType, field, value string) error {
	a, ok := reg.Find(taskType)
	if !ok {
		return fmt.Errorf("no activity with taskType %q", taskType)
	}
	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}
