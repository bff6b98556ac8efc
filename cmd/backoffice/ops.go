package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/insurdesk/backoffice/internal/pkg/application/console"
	"github.com/insurdesk/backoffice/internal/pkg/presentation/render"
	"github.com/spf13/cobra"
)

// The one-shot commands drive the same screen state machine as the
// interactive console: select an operation, edit the draft, dispatch.

var (
	createFields []string
	updateFields []string
)

var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "List all records of a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		screen, err := screenFor(args[0])
		if err != nil {
			return err
		}

		screen.SelectMode(console.ModeRead)
		screen.SetSearchKey("")

		if _, err := screen.Dispatch(cmd.Context()); err != nil {
			return err
		}

		render.ResultSet(os.Stdout, screen.Schema(), screen.ResultSet())
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <resource> <id>",
	Short: "Read a single record by its unique key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		screen, err := screenFor(args[0])
		if err != nil {
			return err
		}

		screen.SelectMode(console.ModeRead)
		screen.SetSearchKey(args[1])

		if _, err := screen.Dispatch(cmd.Context()); err != nil {
			return err
		}

		render.ResultSet(os.Stdout, screen.Schema(), screen.ResultSet())
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create <resource> --set field=value ...",
	Short: "Create a new record from the given field values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		screen, err := screenFor(args[0])
		if err != nil {
			return err
		}

		screen.SelectMode(console.ModeCreate)

		if err := applyFieldArgs(screen, createFields); err != nil {
			return err
		}

		outcome, err := screen.Dispatch(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(outcome.Message)
		render.ResultSet(os.Stdout, screen.Schema(), screen.ResultSet())
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <resource> <id> --set field=value ...",
	Short: "Update the record addressed by the given key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		screen, err := screenFor(args[0])
		if err != nil {
			return err
		}

		screen.SelectMode(console.ModeUpdate)
		screen.SetSearchKey(args[1])

		if err := applyFieldArgs(screen, updateFields); err != nil {
			return err
		}

		outcome, err := screen.Dispatch(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(outcome.Message)
		render.ResultSet(os.Stdout, screen.Schema(), screen.ResultSet())
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <resource> <id>",
	Short: "Delete the record addressed by the given key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		screen, err := screenFor(args[0])
		if err != nil {
			return err
		}

		screen.SelectMode(console.ModeDelete)
		screen.SetSearchKey(args[1])

		outcome, err := screen.Dispatch(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(outcome.Message)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(appName, buildinfo.SourceVersion())
	},
}

func init() {
	createCmd.Flags().StringArrayVar(&createFields, "set", nil, "field assignment on the form name=value (repeatable)")
	updateCmd.Flags().StringArrayVar(&updateFields, "set", nil, "field assignment on the form name=value (repeatable)")
}

func applyFieldArgs(screen *console.Screen, assignments []string) error {
	for _, assignment := range assignments {
		name, value, found := strings.Cut(assignment, "=")
		if !found {
			return fmt.Errorf("invalid field assignment %q (expected name=value)", assignment)
		}

		if err := screen.EditField(name, value); err != nil {
			return err
		}
	}
	return nil
}
