package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shin1244/BubbleTrans/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bubbletrans",
		Short: "Manga speech bubble translator",
		Long: `bubbletrans finds the speech bubbles on manga pages, reads their
Japanese text and writes a translation for every bubble next to the page.

For each image in the directory a text file with the same name is written,
one line per bubble: "<top> <bottom> <left> <right> <translation>".
Pages that already have a text file are skipped.

Examples:
  bubbletrans                          # Translate ./image from Japanese to Korean
  bubbletrans -d chapter1 --target-lang EN-US
  bubbletrans --ocr tesseract --translator openai
  bubbletrans render --out preview     # Draw bubbles and translations onto copies
  bubbletrans view -d chapter1         # Read the translated chapter`,
		Args:         cobra.NoArgs,
		Version:      internal.Version,
		SilenceUsage: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateViewCommand creates the view subcommand
func CreateViewCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Page through translated pages in a window",
		Long: `view opens a window on the translated pages of the directory.
Hover over a bubble to see its translation.

Keys: left/right or left/right click change page, L toggles translation
labels on every bubble, Q closes the window.

Needs a build with -tags gui.`,
		Args: cobra.NoArgs,
	}
}

// CreateRenderCommand creates the render subcommand
func CreateRenderCommand(flags *Flags) *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the translated regions onto copies of the pages",
		Args:  cobra.NoArgs,
	}
	renderCmd.Flags().StringVar(&flags.RenderOut, "out", flags.RenderOut, "Directory for the annotated pages")
	renderCmd.Flags().BoolVar(&flags.RenderNoText, "no-text", false, "Draw region outlines only")

	viper.BindPFlag("render.out", renderCmd.Flags().Lookup("out"))
	viper.BindPFlag("render.no_text", renderCmd.Flags().Lookup("no-text"))
	return renderCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.bubbletrans.yaml)")
	cmd.PersistentFlags().StringVarP(&flags.Dir, "dir", "d", flags.Dir, "Directory with the page images")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log every model and translation request")
	cmd.PersistentFlags().StringVar(&flags.RenderFont, "font", "", "Font for translation labels in render and view (default: an installed Korean font)")
	cmd.PersistentFlags().Float64Var(&flags.RenderFontSize, "font-size", flags.RenderFontSize, "Label font size in points")

	// Local flags
	cmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop at the first page that fails")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move existing result files to an archive directory and exit")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout for a single model or translation request")
	cmd.Flags().IntVar(&flags.Retries, "retries", flags.Retries, "Maximum translation attempts per region")

	// Detector flags
	cmd.Flags().StringVar(&flags.Detector, "detector", flags.Detector, "Region detector: http or tesseract")
	cmd.Flags().StringVar(&flags.DetectorURL, "detector-url", flags.DetectorURL, "Detection service endpoint")
	cmd.Flags().StringVar(&flags.DetectorModel, "detector-model", flags.DetectorModel, "Weights the detection service should load")
	cmd.Flags().Float64Var(&flags.DetectorMinConfidence, "detector-min-confidence", 0, "Drop regions scored below this confidence (0 to 1)")

	// OCR flags
	cmd.Flags().StringVar(&flags.OCR, "ocr", flags.OCR, "OCR provider: http, tesseract or openai")
	cmd.Flags().StringVar(&flags.OCRURL, "ocr-url", flags.OCRURL, "OCR service endpoint")
	cmd.Flags().StringVar(&flags.OCRModel, "ocr-model", "", "OpenAI model for --ocr openai, or languages for --ocr tesseract (e.g. jpn_vert+jpn)")
	cmd.Flags().BoolVar(&flags.OCRGrayscale, "ocr-grayscale", false, "Convert regions to grayscale before OCR")
	cmd.Flags().IntVar(&flags.OCRMinHeight, "ocr-min-height", 0, "Upscale regions shorter than this many pixels before OCR")
	cmd.Flags().IntVar(&flags.OCRPadding, "ocr-padding", 0, "White margin in pixels added around regions before OCR")

	// Translation flags
	cmd.Flags().StringVar(&flags.Translator, "translator", flags.Translator, "Translation provider: deepl, openai or gemini")
	cmd.Flags().StringVar(&flags.SourceLang, "source-lang", flags.SourceLang, "Source language code (DeepL style)")
	cmd.Flags().StringVar(&flags.TargetLang, "target-lang", flags.TargetLang, "Target language code (DeepL style, e.g. KO, EN-US)")
	cmd.Flags().StringVar(&flags.TranslatorModel, "translator-model", "", "Model for --translator openai or gemini")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("dir", cmd.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("render.font", cmd.PersistentFlags().Lookup("font"))
	viper.BindPFlag("render.font_size", cmd.PersistentFlags().Lookup("font-size"))
	viper.BindPFlag("fail_fast", cmd.Flags().Lookup("fail-fast"))
	viper.BindPFlag("timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("retries", cmd.Flags().Lookup("retries"))
	viper.BindPFlag("detector.backend", cmd.Flags().Lookup("detector"))
	viper.BindPFlag("detector.url", cmd.Flags().Lookup("detector-url"))
	viper.BindPFlag("detector.model", cmd.Flags().Lookup("detector-model"))
	viper.BindPFlag("detector.min_confidence", cmd.Flags().Lookup("detector-min-confidence"))
	viper.BindPFlag("ocr.backend", cmd.Flags().Lookup("ocr"))
	viper.BindPFlag("ocr.url", cmd.Flags().Lookup("ocr-url"))
	viper.BindPFlag("ocr.model", cmd.Flags().Lookup("ocr-model"))
	viper.BindPFlag("ocr.grayscale", cmd.Flags().Lookup("ocr-grayscale"))
	viper.BindPFlag("ocr.min_height", cmd.Flags().Lookup("ocr-min-height"))
	viper.BindPFlag("ocr.padding", cmd.Flags().Lookup("ocr-padding"))
	viper.BindPFlag("translator.backend", cmd.Flags().Lookup("translator"))
	viper.BindPFlag("translator.source_lang", cmd.Flags().Lookup("source-lang"))
	viper.BindPFlag("translator.target_lang", cmd.Flags().Lookup("target-lang"))
	viper.BindPFlag("translator.model", cmd.Flags().Lookup("translator-model"))
}

// ApplyConfig copies the merged flag, environment and config file values
// back into flags. Explicit flags win over the environment, which wins over
// the config file.
func ApplyConfig(flags *Flags) {
	flags.Dir = viper.GetString("dir")
	flags.Verbose = viper.GetBool("verbose")
	flags.FailFast = viper.GetBool("fail_fast")
	flags.Timeout = viper.GetDuration("timeout")
	flags.Retries = viper.GetInt("retries")
	flags.Detector = viper.GetString("detector.backend")
	flags.DetectorURL = viper.GetString("detector.url")
	flags.DetectorModel = viper.GetString("detector.model")
	flags.DetectorMinConfidence = viper.GetFloat64("detector.min_confidence")
	flags.OCR = viper.GetString("ocr.backend")
	flags.OCRURL = viper.GetString("ocr.url")
	flags.OCRModel = viper.GetString("ocr.model")
	flags.OCRGrayscale = viper.GetBool("ocr.grayscale")
	flags.OCRMinHeight = viper.GetInt("ocr.min_height")
	flags.OCRPadding = viper.GetInt("ocr.padding")
	flags.Translator = viper.GetString("translator.backend")
	flags.SourceLang = viper.GetString("translator.source_lang")
	flags.TargetLang = viper.GetString("translator.target_lang")
	flags.TranslatorModel = viper.GetString("translator.model")
	if viper.IsSet("render.out") {
		flags.RenderOut = viper.GetString("render.out")
	}
	if viper.IsSet("render.font") {
		flags.RenderFont = viper.GetString("render.font")
	}
	if viper.IsSet("render.font_size") {
		flags.RenderFontSize = viper.GetFloat64("render.font_size")
	}
	if viper.IsSet("render.no_text") {
		flags.RenderNoText = viper.GetBool("render.no_text")
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A missing .env file is not an error; existing variables are kept
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".bubbletrans" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bubbletrans")
	}

	// Environment variables, e.g. BUBBLETRANS_OCR_URL for ocr.url
	viper.SetEnvPrefix("BUBBLETRANS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetDeepLKey retrieves the DeepL auth key from environment or config
func GetDeepLKey() string {
	// First check environment variable
	if key := os.Getenv("DEEPL_AUTH_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translator.deepl_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translator.gemini_key")
}
