package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// shellCommands lists the available commands for the interactive shell help output.
var shellCommands = []struct {
	name string
	desc string
}{
	{"encode sos --type 0 --people 2 --lat <lat> --lon <lon> --phone <digits>", "Build an SOS beacon"},
	{"encode location --lat <lat> --lon <lon>", "Build a location report"},
	{"encode text --text <msg>", "Build a short text message"},
	{"encode ack --msgid <id> --status <code>", "Build an acknowledgment"},
	{"encode nack --msgid <id> --missing 1,2,3", "Build a selective nack"},
	{"decode <hex-frame>", "Parse a frame"},
	{"keygen --passphrase <phrase>", "Derive an AES key"},
	{"challenge create --key <hex>", "Create a challenge block"},
	{"challenge verify <hex> --key <hex>", "Verify a challenge block"},
	{"version", "Print build information"},
	{"help", "Show this help message"},
	{"exit / quit", "Leave the interactive shell"},
}

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive bitpackctl shell",
		Long:  "Launches a simple REPL that accepts bitpackctl subcommands. Type 'help', 'exit', or 'quit'.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			printShellBanner()
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("bitpackctl> ")

			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())

				switch {
				case line == "exit" || line == "quit":
					return nil
				case line == "help" || line == "?":
					printShellHelp()
				case line != "":
					args := strings.Fields(line)
					rootCmd.SetArgs(args)

					if err := rootCmd.Execute(); err != nil {
						fmt.Fprintln(os.Stderr, "Error:", err)
					}
				}

				fmt.Print("bitpackctl> ")
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			return nil
		},
	}
}

// printShellBanner prints a welcome message when the shell starts.
func printShellBanner() {
	fmt.Println("bitpackctl interactive shell. Type 'help' for available commands, 'exit' to quit.")
	fmt.Println()
}

// printShellHelp prints a formatted list of available shell commands.
func printShellHelp() {
	fmt.Println("Available commands:")
	fmt.Println()

	for _, cmd := range shellCommands {
		fmt.Printf("  %-55s %s\n", cmd.name, cmd.desc)
	}

	fmt.Println()
}
