package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/spf13/cobra"
)

// articleMeta mirrors the header written by docs-export
type articleMeta struct {
	Collection   string   `yaml:"collection"`
	Categories   []string `yaml:"categories"`
	Keywords     any      `yaml:"keywords"`
	Name         string   `yaml:"name"`
	HelpScoutURL string   `yaml:"helpscout_url"`
	Slug         string   `yaml:"slug"`
}

type exportedFile struct {
	Path string
	Meta articleMeta
}

var deleteDuplicates bool

var rootCmd = &cobra.Command{
	Use:          "audit",
	Short:        "Check an exported articles directory",
	SilenceUsage: true,
}

var checkCmd = &cobra.Command{
	Use:   "check <articles-directory>",
	Short: "Report files whose front-matter disagrees with their path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := loadExport(args[0])
		if err != nil {
			return err
		}

		problems := checkFiles(args[0], files)
		for _, p := range problems {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nChecked %d files, %d problems\n", len(files), len(problems))
		if len(problems) > 0 {
			return fmt.Errorf("%d problems found", len(problems))
		}
		return nil
	},
}

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates <articles-directory>",
	Short: "Report articles exported more than once under different paths",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := loadExport(args[0])
		if err != nil {
			return err
		}
		var reader *bufio.Reader
		if deleteDuplicates {
			reader = bufio.NewReader(cmd.InOrStdin())
		}
		removed := reportDuplicates(cmd.OutOrStdout(), reader, files)
		fmt.Fprintf(cmd.OutOrStdout(), "\nRemoved %d duplicate files\n", removed)
		return nil
	},
}

func init() {
	duplicatesCmd.Flags().BoolVar(&deleteDuplicates, "delete", false, "Prompt to delete all but the first copy")
	rootCmd.AddCommand(checkCmd, duplicatesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// loadExport parses the front-matter of every .md file below dir
func loadExport(dir string) ([]exportedFile, error) {
	var files []exportedFile

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		meta, err := parseFile(path)
		if err != nil {
			log.Printf("Error processing %s: %v", path, err)
			return nil
		}
		files = append(files, exportedFile{Path: path, Meta: meta})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return files, nil
}

func parseFile(path string) (articleMeta, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return articleMeta{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	var meta articleMeta
	if _, err := frontmatter.MustParse(bytes.NewReader(content), &meta); err != nil {
		return articleMeta{}, fmt.Errorf("parsing front-matter: %w", err)
	}
	return meta, nil
}

// checkFiles returns one message per file whose slug or collection does not
// match <dir>/<collection>/<slug>.md, or whose required keys are empty.
func checkFiles(dir string, files []exportedFile) []string {
	var problems []string

	for _, f := range files {
		rel, err := filepath.Rel(dir, f.Path)
		if err != nil {
			rel = f.Path
		}

		var missing []string
		if f.Meta.Collection == "" {
			missing = append(missing, "collection")
		}
		if f.Meta.Slug == "" {
			missing = append(missing, "slug")
		}
		if f.Meta.Name == "" {
			missing = append(missing, "name")
		}
		if f.Meta.HelpScoutURL == "" {
			missing = append(missing, "helpscout_url")
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("%s: missing %s", rel, strings.Join(missing, ", ")))
		}

		want := filepath.Join(f.Meta.Collection, f.Meta.Slug+".md")
		if f.Meta.Collection != "" && f.Meta.Slug != "" && rel != want {
			problems = append(problems, fmt.Sprintf("%s: front-matter points to %s", rel, want))
		}
	}

	return problems
}

// reportDuplicates groups files by helpscout_url. When reader is non-nil the
// user is asked whether to delete every copy after the first.
func reportDuplicates(out io.Writer, reader *bufio.Reader, files []exportedFile) int {
	byURL := make(map[string][]string)
	for _, f := range files {
		if f.Meta.HelpScoutURL == "" {
			continue
		}
		byURL[f.Meta.HelpScoutURL] = append(byURL[f.Meta.HelpScoutURL], f.Path)
	}

	urls := make([]string, 0, len(byURL))
	for u := range byURL {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	totalRemoved := 0
	for _, u := range urls {
		paths := byURL[u]
		if len(paths) <= 1 {
			continue
		}
		sort.Strings(paths)

		fmt.Fprintf(out, "\nFound %d copies of %s:\n", len(paths), u)
		for i, path := range paths {
			if i == 0 {
				fmt.Fprintf(out, "  KEEP: %s\n", path)
				continue
			}

			if reader != nil && confirmDelete(out, reader, path) {
				if err := os.Remove(path); err != nil {
					log.Printf("Error removing %s: %v", path, err)
				} else {
					totalRemoved++
					fmt.Fprintf(out, "  REMOVED: %s\n", path)
				}
			} else {
				fmt.Fprintf(out, "  DUPLICATE: %s\n", path)
			}
		}
	}

	return totalRemoved
}

func confirmDelete(out io.Writer, reader *bufio.Reader, path string) bool {
	for {
		fmt.Fprintf(out, "  DELETE %s? [y/N]: ", path)
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			return false
		}
		response := strings.ToLower(strings.TrimSpace(input))
		switch response {
		case "y", "yes":
			return true
		case "", "n", "no":
			return false
		default:
			fmt.Fprintln(out, "  Please enter y or n.")
		}
	}
}
