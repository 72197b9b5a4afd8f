package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/keyword"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
)

var keywordsFile string

// NewKeywordsCmd creates the keywords command, which manages the watch list
// file that decides which bulletins count as navigation warnings. All
// subcommands work on a local JSON file; a missing file means the built-in
// bilingual defaults.
func NewKeywordsCmd() *cobra.Command {
	keywordsCmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage the navigation-warning keyword watch list",
	}
	keywordsCmd.PersistentFlags().StringVar(&keywordsFile, "file", "keywords.json", "Watch list file (JSON array of keywords)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the active watch list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeywordsList(cmd)
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <keyword>...",
		Short: "Add keywords to the watch list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeywordsAdd(cmd, args)
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <keyword>...",
		Short: "Remove keywords from the watch list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeywordsRemove(cmd, args)
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the built-in bilingual default watch list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeywordsReset(cmd)
		},
	}

	keywordsCmd.AddCommand(listCmd, addCmd, removeCmd, resetCmd)
	return keywordsCmd
}

func runKeywordsList(cmd *cobra.Command) error {
	matcher, err := loadWatchList(keywordsFile)
	if err != nil {
		return err
	}
	keywords := matcher.Sorted()

	cliCtx, ctxErr := GetCLIContext(cmd)
	if ctxErr == nil && strings.EqualFold(cliCtx.OutputFormat, "json") {
		return PrintResult(cmd, keywords)
	}
	for _, kw := range keywords {
		fmt.Fprintln(cmd.OutOrStdout(), kw)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d keyword(s)\n", len(keywords))
	return nil
}

func runKeywordsAdd(cmd *cobra.Command, args []string) error {
	matcher, err := loadWatchList(keywordsFile)
	if err != nil {
		return err
	}
	added := 0
	for _, kw := range args {
		if err := matcher.Add(kw); err != nil {
			if errors.IsCode(err, errors.CodeKeywordExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "already present: %s\n", kw)
				continue
			}
			return err
		}
		added++
	}
	if err := saveWatchList(keywordsFile, matcher); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %d keyword(s), watch list now holds %d\n", added, matcher.Len())
	return nil
}

func runKeywordsRemove(cmd *cobra.Command, args []string) error {
	matcher, err := loadWatchList(keywordsFile)
	if err != nil {
		return err
	}
	removed := 0
	for _, kw := range args {
		if err := matcher.Remove(kw); err != nil {
			if errors.IsCode(err, errors.CodeKeywordNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "not in watch list: %s\n", kw)
				continue
			}
			return err
		}
		removed++
	}
	if err := saveWatchList(keywordsFile, matcher); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d keyword(s), watch list now holds %d\n", removed, matcher.Len())
	return nil
}

func runKeywordsReset(cmd *cobra.Command) error {
	matcher := keyword.NewMatcher(nil)
	if err := saveWatchList(keywordsFile, matcher); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "watch list reset to %d default keyword(s)\n", matcher.Len())
	return nil
}

// loadWatchList reads the keyword file, falling back to the built-in
// defaults when the file does not exist yet.
func loadWatchList(path string) (*keyword.Matcher, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return keyword.NewMatcher(nil), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "failed to read watch list file "+path)
	}
	var keywords []string
	if err := json.Unmarshal(data, &keywords); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "watch list file is not a JSON array of strings")
	}
	return keyword.NewMatcher(keywords), nil
}

func saveWatchList(path string, matcher *keyword.Matcher) error {
	data, err := json.MarshalIndent(matcher.Export(), "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode watch list")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to write watch list file "+path)
	}
	return nil
}
