package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/insurdesk/backoffice/internal/pkg/application/console"
	"github.com/insurdesk/backoffice/internal/pkg/presentation/render"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive back-office console",
	Long: `Console starts an interactive session with one screen per configured
resource. A session keeps a draft record, a search key and the results
of the last operation per screen; switching operation mode never
discards any of them.

Commands:
  use <resource>        switch to another screen
  mode <operation>      select create, read, update or delete
  key <value>           set the search key ("key" alone clears it)
  set <field> <value>   edit a draft field
  go                    dispatch the selected operation
  show                  show screen state and last results
  help                  this text
  quit                  leave the console`,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	resources := app.Resources()
	if len(resources) == 0 {
		return fmt.Errorf("no resources configured")
	}

	screen, _ := app.Screen(resources[0])
	fmt.Printf("connected; screens: %s\n", strings.Join(resources, ", "))
	render.Screen(os.Stdout, screen)

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("%s/%s> ", screen.Schema().Resource, screen.Mode())

		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		verb, rest := parts[0], parts[1:]

		switch verb {
		case "quit", "exit":
			return nil

		case "help":
			fmt.Println(cmd.Long)

		case "use":
			if len(rest) != 1 {
				fmt.Println("usage: use <resource>")
				continue
			}
			next, err := screenFor(rest[0])
			if err != nil {
				fmt.Println(err)
				continue
			}
			screen = next
			render.Screen(os.Stdout, screen)

		case "mode":
			if len(rest) != 1 {
				fmt.Println("usage: mode <create|read|update|delete>")
				continue
			}
			mode, err := console.ParseMode(rest[0])
			if err != nil {
				fmt.Println(err)
				continue
			}
			screen.SelectMode(mode)
			render.Screen(os.Stdout, screen)

		case "key":
			screen.SetSearchKey(strings.Join(rest, " "))

		case "set":
			if len(rest) < 1 {
				fmt.Println("usage: set <field> <value>")
				continue
			}
			err := screen.EditField(rest[0], strings.Join(rest[1:], " "))
			if err != nil {
				fmt.Println(err)
			}

		case "go":
			dispatch(cmd, screen)

		case "show":
			render.Screen(os.Stdout, screen)
			render.ResultSet(os.Stdout, screen.Schema(), screen.ResultSet())

		default:
			fmt.Printf("unknown command %q (try help)\n", verb)
		}
	}
}

func dispatch(cmd *cobra.Command, screen *console.Screen) {
	fmt.Println("working ...")

	outcome, err := screen.Dispatch(cmd.Context())
	if err != nil {
		fmt.Println("operation failed:", err)
		return
	}

	if outcome.Message != "" {
		fmt.Println(outcome.Message)
	}

	if outcome.Mode != console.ModeDelete {
		render.ResultSet(os.Stdout, screen.Schema(), screen.ResultSet())
	}
}
