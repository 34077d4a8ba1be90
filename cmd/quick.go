package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/punchclock/internal/quicktask"
	"github.com/fakeyudi/punchclock/internal/task"
)

var quickCategory string

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Manage quick-task presets (name + category)",
}

var quickListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved quick tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		qts, err := quicktask.Load()
		if err != nil {
			return err
		}
		if len(qts) == 0 {
			cmd.Println("no quick tasks saved")
			return nil
		}
		for _, qt := range qts {
			cmd.Printf("%-10s %s\n", qt.Category, qt.Name)
		}
		return nil
	},
}

var quickAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save a quick task; 'start <name>' then uses its category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return cmd.Help()
		}
		qt := quicktask.QuickTask{Name: name, Category: task.ParseCategory(quickCategory)}
		if err := quicktask.Add(qt); err != nil {
			return err
		}
		cmd.Printf("Saved quick task %q (%s).\n", qt.Name, qt.Category)
		return nil
	},
}

var quickRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved quick task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		if err := quicktask.Remove(name); err != nil {
			return err
		}
		cmd.Printf("Removed quick task %q.\n", name)
		return nil
	},
}

func init() {
	quickAddCmd.Flags().StringVarP(&quickCategory, "category", "c", "", "category for the preset")
	quickCmd.AddCommand(quickListCmd, quickAddCmd, quickRemoveCmd)
	rootCmd.AddCommand(quickCmd)
}
