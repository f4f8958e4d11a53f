package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rmarques/wildchat/internal/config"
)

var personalityCmd = &cobra.Command{
	Use:   "personality",
	Short: "Manage chat personalities",
	Long:  `View and manage personalities (system prompt presets) for chat sessions.`,
}

var personalityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available personalities",
	RunE:  runPersonalityList,
}

var personalityShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show personality details",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonalityShow,
}

var personalityAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new personality",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonalityAdd,
}

var (
	editDescFlag   string
	editPromptFlag string
	editModelFlag  string
	editTempFlag   float64
)

var personalityEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit an existing personality",
	Long:  `Update fields of an existing personality. Only the flags you pass change.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonalityEdit,
}

var personalityDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a personality",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonalityDelete,
}

var personalitySetDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set default personality",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonalitySetDefault,
}

func init() {
	personalityCmd.AddCommand(personalityListCmd)
	personalityCmd.AddCommand(personalityShowCmd)
	personalityCmd.AddCommand(personalityAddCmd)
	personalityCmd.AddCommand(personalityEditCmd)
	personalityCmd.AddCommand(personalityDeleteCmd)

	personalityEditCmd.Flags().StringVar(&editDescFlag, "description", "", "New description")
	personalityEditCmd.Flags().StringVar(&editPromptFlag, "prompt", "", "New system prompt")
	personalityEditCmd.Flags().StringVar(&editModelFlag, "model", "", "New preferred model")
	personalityEditCmd.Flags().Float64Var(&editTempFlag, "temperature", 0, "New temperature override (0 clears)")
	personalityCmd.AddCommand(personalitySetDefaultCmd)
}

func runPersonalityList(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadPersonalities()
	if err != nil {
		return fmt.Errorf("failed to load personalities: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tDESCRIPTION\tMODEL\tDEFAULT")
	_, _ = fmt.Fprintln(w, "----\t-----------\t-----\t-------")

	for _, p := range cfg.Personalities {
		isDefault := ""
		if p.Name == cfg.DefaultPersonality {
			isDefault = "✓"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Description, p.Model, isDefault)
	}

	return w.Flush()
}

func runPersonalityShow(cmd *cobra.Command, args []string) error {
	personality, err := config.GetPersonality(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Name: %s\n", personality.Name)
	fmt.Printf("Description: %s\n", personality.Description)
	if personality.Model != "" {
		fmt.Printf("Preferred Model: %s\n", personality.Model)
	}
	if personality.Temperature > 0 {
		fmt.Printf("Temperature: %.2f\n", personality.Temperature)
	}
	fmt.Printf("\nSystem Prompt:\n%s\n", personality.SystemPrompt)

	return nil
}

func runPersonalityAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Check if already exists
	if _, err := config.GetPersonality(name); err == nil {
		return fmt.Errorf("personality '%s' already exists", name)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Enter description: ")
	desc, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	desc = strings.TrimSpace(desc)

	fmt.Println("Enter system prompt (end with an empty line):")
	var promptLines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimRight(line, "\n\r")
		if line == "" {
			break
		}
		promptLines = append(promptLines, line)
	}
	prompt := strings.Join(promptLines, "\n")

	personality := config.Personality{
		Name:         name,
		Description:  desc,
		SystemPrompt: prompt,
	}

	if err := config.AddPersonality(personality); err != nil {
		return err
	}

	fmt.Printf("Personality '%s' created.\n", name)
	return nil
}

func runPersonalityEdit(cmd *cobra.Command, args []string) error {
	personality, err := config.GetPersonality(args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("description") {
		personality.Description = editDescFlag
	}
	if cmd.Flags().Changed("prompt") {
		personality.SystemPrompt = editPromptFlag
	}
	if cmd.Flags().Changed("model") {
		personality.Model = editModelFlag
	}
	if cmd.Flags().Changed("temperature") {
		personality.Temperature = editTempFlag
	}

	if err := config.UpdatePersonality(*personality); err != nil {
		return err
	}

	fmt.Printf("Personality '%s' updated.\n", personality.Name)
	return nil
}

func runPersonalityDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := config.DeletePersonality(name); err != nil {
		return err
	}

	fmt.Printf("Personality '%s' deleted.\n", name)
	return nil
}

func runPersonalitySetDefault(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := config.SetDefaultPersonality(name); err != nil {
		return err
	}

	fmt.Printf("Default personality set to '%s'.\n", name)
	return nil
}
