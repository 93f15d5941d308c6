package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jadenpxrk/prism/internal/config"
	"github.com/jadenpxrk/prism/internal/language"
	"github.com/jadenpxrk/prism/internal/pdf"
	"github.com/jadenpxrk/prism/internal/pipeline"
	"github.com/jadenpxrk/prism/internal/token"
)

var langTable *language.Table

// version is set via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "prism [PATHS...]",
	Short: "Prism packs a relevance-ranked slice of a project into one LLM-ready artifact.",
	Long: `Prism walks a project, filters and scores its files, trims the selection to a
size budget, and renders the result as structured markup, a markdown document,
or plain concatenated text, with an estimated token count.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		paths := args
		if viper.GetBool("interactive") {
			picked, err := runInteractivePicker()
			if err != nil {
				return fmt.Errorf("interactive mode: %w", err)
			}
			if picked == nil {
				return nil // user aborted
			}
			paths = picked
		}
		if len(paths) == 0 {
			paths = []string{"."}
		}

		opts, err := buildOptions()
		if err != nil {
			return err
		}
		if opts.Counter != nil {
			defer opts.Counter.Close()
		}

		res, err := pipeline.Process(ctx, paths, opts)
		if err != nil {
			return err
		}

		for _, d := range res.Diagnostics {
			fmt.Fprintf(os.Stderr, "Warning: %s: %s (%s)\n", d.Path, d.Err, d.Stage)
		}

		if pdfOut := viper.GetString("pdf"); pdfOut != "" {
			if err := pdf.Export(res, langTable, pdfOut); err != nil {
				return fmt.Errorf("generating PDF: %w", err)
			}
			fmt.Fprintf(os.Stderr, "PDF saved to %s\n", pdfOut)
		} else if outFile := viper.GetString("file"); outFile != "" {
			if err := os.WriteFile(outFile, []byte(res.Output), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", outFile, err)
			}
			fmt.Fprintf(os.Stderr, "Output saved to %s\n", outFile)
		} else if viper.GetBool("clipboard") {
			if err := clipboard.WriteAll(res.Output); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: clipboard write failed: %v\n", err)
				fmt.Print(res.Output)
			} else {
				fmt.Fprintln(os.Stderr, "Output copied to clipboard.")
			}
		} else {
			fmt.Print(res.Output)
		}

		fmt.Fprintf(os.Stderr, "\nFiles selected: %d\nTotal size: %s\n",
			len(res.Selected), humanize.Bytes(uint64(res.TotalBytes)))
		if !viper.GetBool("no_tokens") {
			fmt.Fprintf(os.Stderr, "Estimated tokens: %d\n", res.TokenCount)
		}
		if len(res.Diagnostics) > 0 {
			fmt.Fprintf(os.Stderr, "Warnings: %d\n", len(res.Diagnostics))
		}
		return nil
	},
}

// buildOptions resolves settings through viper so a value can come from a
// flag, the config file, or a PRISM_* variable, in that precedence. Size and
// format problems surface here, before anything is walked.
func buildOptions() (pipeline.Options, error) {
	fc := config.DefaultFilter()

	if v := viper.GetString("exclude"); v != "" {
		fc.IgnorePatterns = splitPatterns(v)
	}
	if v := viper.GetString("include"); v != "" {
		fc.IncludePatterns = splitPatterns(v)
	}
	if v := viper.GetString("priority"); v != "" {
		fc.HighPriorityPatterns = splitPatterns(v)
	}
	if v := viper.GetString("extensions"); v != "" {
		fc.AllowedExtensions = nil
		for _, ext := range splitPatterns(v) {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			fc.AllowedExtensions = append(fc.AllowedExtensions, strings.ToLower(ext))
		}
	}
	if v := viper.GetString("max_size"); v != "" {
		n, err := config.ParseSize(v)
		if err != nil {
			return pipeline.Options{}, err
		}
		fc.MaxFileSize = n
	}
	if v := viper.GetString("max_total"); v != "" {
		n, err := config.ParseSize(v)
		if err != nil {
			return pipeline.Options{}, err
		}
		fc.MaxTotalSize = n
	}
	fc.MaxDepth = viper.GetInt("max_depth")
	fc.RespectIgnoreFile = !viper.GetBool("no_ignore")

	rc := config.RenderConfig{
		Format:            viper.GetString("format"),
		PreserveStructure: viper.GetBool("preserve_structure"),
	}
	if err := config.ValidateFormat(rc.Format); err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Filter:    fc,
		Render:    rc,
		Workers:   viper.GetInt("threads"),
		Languages: langTable,
	}

	if !viper.GetBool("no_tokens") {
		counter, err := loadCounter()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: tokenizer unavailable (%v), using character estimate.\n", err)
		} else {
			opts.Counter = counter
		}
	}
	return opts, nil
}

func loadCounter() (token.Counter, error) {
	if f := viper.GetString("tokenizer_file"); f != "" {
		return token.NewLocal(f)
	}
	return token.NewTiktoken(viper.GetString("model"))
}

func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func init() {
	cobra.OnInitialize(initConfig, initLanguages)

	// Filtering
	rootCmd.Flags().StringP("exclude", "e", "", "Additional ignore patterns (comma-separated globs)")
	viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))
	rootCmd.Flags().StringP("include", "i", "", "Additional include patterns (comma-separated globs)")
	viper.BindPFlag("include", rootCmd.Flags().Lookup("include"))
	rootCmd.Flags().String("priority", "", "High-priority patterns that bypass the file size limit")
	viper.BindPFlag("priority", rootCmd.Flags().Lookup("priority"))
	rootCmd.Flags().String("extensions", "", "Override the allowed extension list (comma-separated)")
	viper.BindPFlag("extensions", rootCmd.Flags().Lookup("extensions"))
	rootCmd.Flags().StringP("max-size", "s", "", `Maximum file size (e.g. "100kb")`)
	viper.BindPFlag("max_size", rootCmd.Flags().Lookup("max-size"))
	rootCmd.Flags().String("max-total", "", `Maximum total selection size (e.g. "2mb")`)
	viper.BindPFlag("max_total", rootCmd.Flags().Lookup("max-total"))
	rootCmd.Flags().Int("max-depth", -1, "Maximum directory depth (-1 for no limit)")
	viper.BindPFlag("max_depth", rootCmd.Flags().Lookup("max-depth"))
	rootCmd.Flags().Bool("no-ignore", false, "Don't respect .gitignore files")
	viper.BindPFlag("no_ignore", rootCmd.Flags().Lookup("no-ignore"))

	// Output
	rootCmd.Flags().StringP("format", "o", config.FormatStructured, "Output format: structured, document, or plain")
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	rootCmd.Flags().Bool("preserve-structure", true, "Emit path comments in plain format")
	viper.BindPFlag("preserve_structure", rootCmd.Flags().Lookup("preserve-structure"))
	rootCmd.Flags().StringP("file", "f", "", "Save output to the given file")
	viper.BindPFlag("file", rootCmd.Flags().Lookup("file"))
	rootCmd.Flags().BoolP("clipboard", "c", false, "Copy output to clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.Flags().String("pdf", "", "Save output as a syntax-highlighted PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))

	// Processing
	rootCmd.Flags().IntP("threads", "t", 0, "Worker count for content scoring (0 for auto)")
	viper.BindPFlag("threads", rootCmd.Flags().Lookup("threads"))

	// Token counting
	rootCmd.Flags().Bool("no-tokens", false, "Skip the precise tokenizer, use the character estimate")
	viper.BindPFlag("no_tokens", rootCmd.Flags().Lookup("no-tokens"))
	rootCmd.Flags().String("model", "", "Target model for token estimation (e.g. gpt-4o)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().String("tokenizer-file", "", "Path to a local tokenizer file")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Interactive mode
	rootCmd.Flags().Bool("interactive", false, "Pick input paths with a fuzzy finder")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))

	viper.SetDefault("format", config.FormatStructured)
	viper.SetDefault("max_depth", -1)
	viper.SetDefault("preserve_structure", true)
	viper.SetDefault("threads", 0)
}

// initConfig reads the config file and PRISM_* environment variables.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(filepath.Join(home, ".config", "prism"))
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("PRISM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}

// initLanguages loads the language table, extended by an optional
// languages.yml next to the config file or in the working directory.
func initLanguages() {
	searchDirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		searchDirs = append([]string{filepath.Join(home, ".config", "prism")}, searchDirs...)
	}
	table, err := language.Load(searchDirs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load language definitions: %v\n", err)
		table = language.Default()
	}
	langTable = table
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
