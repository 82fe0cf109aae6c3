package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"srcpack/pkg/export"
	"srcpack/pkg/ignore"
)

// exportCmd drives a full export run from the command line.
var exportCmd = &cobra.Command{
	Use:   "export [paths...]",
	Short: "Pack files and directories into a single document",
	Long: `Export walks the given files, directories or git clone URLs, filters
out binary, oversized and ignored entries, and writes the remaining sources
as one document to stdout, a file or the clipboard. With no paths it exports
the current directory.`,
	Args: cobra.ArbitraryArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	roots, cleanup, err := resolveRoots(args)
	if err != nil {
		return err
	}
	defer cleanup()

	settings, err := settingsFromConfig()
	if err != nil {
		return err
	}

	var predicate export.IgnorePredicate
	if !viper.GetBool("no_ignore") {
		predicate = buildMatcher(roots)
	}

	exporter, err := export.New(settings, predicate, logger)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	if interactive {
		exporter.OnProgress(func(accepted int64) {
			fmt.Fprintf(os.Stderr, "\rfiles: %d", accepted)
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result := exporter.Export(ctx, roots...)
	if interactive {
		fmt.Fprint(os.Stderr, "\r\x1b[2K")
	}

	if err := writeOutput(result.Output); err != nil {
		return err
	}
	reportStats(result)
	return nil
}

// resolveRoots turns the arguments into local roots, cloning any git URLs
// into temporary directories. The cleanup function removes those clones.
func resolveRoots(args []string) (roots []string, cleanup func(), err error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	var tempDirs []string
	cleanup = func() {
		for _, dir := range tempDirs {
			os.RemoveAll(dir)
		}
	}
	for _, arg := range args {
		if isGitURL(arg) {
			dir, cloneErr := cloneRepo(arg)
			if cloneErr != nil {
				cleanup()
				return nil, func() {}, cloneErr
			}
			tempDirs = append(tempDirs, dir)
			roots = append(roots, dir)
			continue
		}
		roots = append(roots, arg)
	}
	return roots, cleanup, nil
}

// settingsFromConfig builds engine settings from the resolved flag,
// environment and config-file values.
func settingsFromConfig() (export.Settings, error) {
	settings := export.NewSettings()
	settings.MaxFiles = viper.GetInt("max_files")
	settings.MaxFileSizeBytes = viper.GetInt64("max_size")
	settings.IncludeLineNumbers = viper.GetBool("line_numbers")
	settings.IncludePathPrefix = !viper.GetBool("no_path_prefix")
	settings.IncludeDirectoryStructure = !viper.GetBool("no_tree")
	settings.IncludeFilesInStructure = !viper.GetBool("dirs_only")
	settings.IncludeRepositorySummary = viper.GetBool("summary")
	settings.TokenizerModel = viper.GetString("model")
	settings.Workers = viper.GetInt("workers")

	if filters := viper.GetStringSlice("filter"); len(filters) > 0 {
		settings.FilenameFilters = filters
		settings.FiltersEnabled = true
	}
	for _, name := range viper.GetStringSlice("ignore_name") {
		settings.IgnoredNames[name] = true
	}

	format, err := parseFormat(viper.GetString("format"))
	if err != nil {
		return settings, err
	}
	settings.Format = format
	return settings, nil
}

// parseFormat maps the CLI format names onto the engine's output formats.
func parseFormat(name string) (export.OutputFormat, error) {
	switch strings.ToLower(name) {
	case "plain", "text", "txt":
		return export.FormatPlainText, nil
	case "markdown", "md":
		return export.FormatMarkdown, nil
	case "xml":
		return export.FormatXML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want plain, markdown or xml)", name)
	}
}

// buildMatcher loads the ignore rules for a run: each root's .gitignore,
// any extra ignore files, and ad hoc --exclude patterns.
func buildMatcher(roots []string) *ignore.Matcher {
	matcher := ignore.ForRoots(logger, roots...)
	for _, path := range viper.GetStringSlice("ignore_file") {
		if err := matcher.AddFile(path); err != nil {
			logger.Warn("Failed to load ignore file",
				zap.String("path", path),
				zap.Error(err))
		}
	}
	patterns := viper.GetStringSlice("exclude")
	if len(patterns) == 0 {
		return matcher
	}
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		matcher.AddPatterns(abs, patterns...)
	}
	return matcher
}

// writeOutput delivers the document to the configured destination. A failed
// clipboard write falls back to stdout so the run's work is never lost.
func writeOutput(output string) error {
	switch {
	case viper.GetString("file") != "":
		path := viper.GetString("file")
		if err := os.WriteFile(path, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Output saved to %s\n", path)
	case viper.GetBool("clipboard"):
		if err := clipboard.WriteAll(output); err != nil {
			logger.Warn("Clipboard write failed; printing to stdout", zap.Error(err))
			fmt.Println(output)
			return nil
		}
		fmt.Fprintln(os.Stderr, "Output copied to clipboard.")
	default:
		fmt.Println(output)
	}
	return nil
}

// reportStats prints the run statistics to stderr, keeping stdout clean for
// the document itself.
func reportStats(result *export.Result) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	fmt.Fprintln(os.Stderr)
	bold.Fprintln(os.Stderr, "Export statistics")
	green.Fprintf(os.Stderr, "  included files:   %d\n", result.ProcessedFiles)
	fmt.Fprintf(os.Stderr, "  excluded files:   %d\n", result.Exclusions.Total())
	fmt.Fprintf(os.Stderr, "    by filter:      %d\n", result.Exclusions.ByFilter)
	fmt.Fprintf(os.Stderr, "    by size:        %d\n", result.Exclusions.BySize)
	fmt.Fprintf(os.Stderr, "    binary:         %d\n", result.Exclusions.ByBinaryContent)
	fmt.Fprintf(os.Stderr, "    by name:        %d\n", result.Exclusions.ByIgnoredName)
	fmt.Fprintf(os.Stderr, "    by ignore rule: %d\n", result.Exclusions.ByGitignore)
	if len(result.RejectedExtensions) > 0 {
		fmt.Fprintf(os.Stderr, "  filtered extensions: %s\n",
			strings.Join(result.RejectedExtensions, ", "))
	}
	if result.LimitReached {
		yellow.Fprintln(os.Stderr, "  file limit reached; output is partial")
	}
	fmt.Fprintf(os.Stderr, "  duration: %s\n", result.Duration.Round(time.Millisecond))
}

func init() {
	f := exportCmd.Flags()
	f.Int("max-files", export.DefaultMaxFiles, "maximum number of files to include")
	f.Int64("max-size", export.DefaultMaxFileSize, "maximum file size in bytes")
	f.StringSliceP("filter", "F", nil, "only include files ending with these suffixes (e.g. .go,.md)")
	f.StringP("format", "o", "markdown", "output format: plain, markdown or xml")
	f.BoolP("line-numbers", "n", false, "number the content lines of every file")
	f.Bool("no-path-prefix", false, "do not prepend a header comment naming each file")
	f.Bool("no-tree", false, "do not prepend the directory structure")
	f.Bool("dirs-only", false, "directory structure shows directories only")
	f.BoolP("summary", "S", false, "prepend a character and token count summary")
	f.String("model", export.DefaultTokenizerModel, "tokenizer model used for token counts")
	f.Bool("no-ignore", false, "do not honor .gitignore rules")
	f.StringSlice("ignore-file", nil, "additional ignore files to load")
	f.StringSliceP("exclude", "e", nil, "additional ignore patterns (gitignore syntax)")
	f.StringSlice("ignore-name", nil, "additional entry names to skip")
	f.IntP("workers", "t", 0, "concurrent root tasks (0 for auto)")
	f.StringP("file", "f", "", "write the output to this file")
	f.BoolP("clipboard", "c", false, "copy the output to the clipboard")

	viper.BindPFlag("max_files", f.Lookup("max-files"))
	viper.BindPFlag("max_size", f.Lookup("max-size"))
	viper.BindPFlag("filter", f.Lookup("filter"))
	viper.BindPFlag("format", f.Lookup("format"))
	viper.BindPFlag("line_numbers", f.Lookup("line-numbers"))
	viper.BindPFlag("no_path_prefix", f.Lookup("no-path-prefix"))
	viper.BindPFlag("no_tree", f.Lookup("no-tree"))
	viper.BindPFlag("dirs_only", f.Lookup("dirs-only"))
	viper.BindPFlag("summary", f.Lookup("summary"))
	viper.BindPFlag("model", f.Lookup("model"))
	viper.BindPFlag("no_ignore", f.Lookup("no-ignore"))
	viper.BindPFlag("ignore_file", f.Lookup("ignore-file"))
	viper.BindPFlag("exclude", f.Lookup("exclude"))
	viper.BindPFlag("ignore_name", f.Lookup("ignore-name"))
	viper.BindPFlag("workers", f.Lookup("workers"))
	viper.BindPFlag("file", f.Lookup("file"))
	viper.BindPFlag("clipboard", f.Lookup("clipboard"))

	RootCmd.AddCommand(exportCmd)
}
