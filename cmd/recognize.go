package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tkral/faceid/internal/config"
	"github.com/tkral/faceid/internal/constants"
	"github.com/tkral/faceid/internal/facedb"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize [dir]",
	Short: "Match a directory of images against a trained database",
	Long: `Match every image in a directory against the trained face database.

Each image is projected into every trained subspace and matched to its
nearest training image. When the directory layout carries ground truth
(person subdirectories or <class>_<name> file names), per-algorithm
accuracy is reported as well.

Examples:
  # Match probe images using the default model files
  faceid recognize ./probes

  # Machine-readable output
  faceid recognize ./probes --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().String("set", "", "Path to the set file (default from config)")
	recognizeCmd.Flags().String("data", "", "Path to the data file (default from config)")
	recognizeCmd.Flags().Bool("json", false, "Output as JSON instead of a table")
	recognizeCmd.Flags().Int("concurrency", constants.DefaultConcurrency, "Number of parallel workers")
	recognizeCmd.Flags().String("resize", "", "Resize images to WIDTHxHEIGHT before matching")
}

// MatchOutput represents a single match in JSON output.
type MatchOutput struct {
	Algorithm string  `json:"algorithm"`
	Class     int     `json:"class"`
	Name      string  `json:"name"`
	Distance  float64 `json:"distance"`
	Index     int     `json:"index"`
	Correct   *bool   `json:"correct,omitempty"`
}

// ResultOutput represents a single probe image in JSON output.
type ResultOutput struct {
	Path    string        `json:"path"`
	Error   string        `json:"error,omitempty"`
	Matches []MatchOutput `json:"matches,omitempty"`
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setPath, dataPath := resolveModelPaths(cmd, cfg.Model.SetPath, cfg.Model.DataPath)

	width, height, err := parseSize(mustGetString(cmd, "resize"))
	if err != nil {
		return err
	}
	jsonOutput := mustGetBool(cmd, "json")

	db, err := facedb.Load(setPath, dataPath)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	opts := facedb.RecognizeOptions{
		Concurrency:  mustGetInt(cmd, "concurrency"),
		ResizeWidth:  width,
		ResizeHeight: height,
	}

	if !jsonOutput {
		fmt.Printf("Loaded model: %d images, %d classes, algorithms: %s\n",
			db.NumImages(), db.NumClasses(), strings.Join(db.Algorithms(), ", "))

		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Matching faces"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
		opts.OnProgress = func(done, total int) {
			bar.ChangeMax(total)
			_ = bar.Set(done)
		}
	}

	results, err := db.Recognize(args[0], opts)
	if err != nil {
		return fmt.Errorf("recognition failed: %w", err)
	}

	if jsonOutput {
		return outputJSON(toResultOutputs(results))
	}

	fmt.Println()
	printResults(results)
	return nil
}

func toResultOutputs(results []facedb.Result) []ResultOutput {
	out := make([]ResultOutput, 0, len(results))
	for _, res := range results {
		ro := ResultOutput{Path: res.Path}
		if res.Err != nil {
			ro.Error = res.Err.Error()
			out = append(out, ro)
			continue
		}
		for _, m := range res.Matches {
			ro.Matches = append(ro.Matches, MatchOutput{
				Algorithm: m.Algorithm,
				Class:     m.Class,
				Name:      m.Name,
				Distance:  m.Distance,
				Index:     m.Index,
				Correct:   m.Correct,
			})
		}
		out = append(out, ro)
	}
	return out
}

func printResults(results []facedb.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tALGORITHM\tMATCH\tCLASS\tDISTANCE\tCORRECT")
	fmt.Fprintln(w, "----\t---------\t-----\t-----\t--------\t-------")

	correct := map[string]int{}
	scored := map[string]int{}
	var failed []facedb.Result

	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
			continue
		}
		for _, m := range res.Matches {
			mark := ""
			if m.Correct != nil {
				scored[m.Algorithm]++
				if *m.Correct {
					correct[m.Algorithm]++
					mark = "yes"
				} else {
					mark = "no"
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\n",
				filepath.Base(res.Path), m.Algorithm, m.Name, m.Class, m.Distance, mark)
		}
	}
	w.Flush()

	if len(failed) > 0 {
		fmt.Println("\nFailed files:")
		for _, res := range failed {
			fmt.Printf("  %s: %v\n", res.Path, res.Err)
		}
	}

	printed := false
	for _, alg := range []string{facedb.AlgPCA, facedb.AlgLDA, facedb.AlgICA} {
		if scored[alg] == 0 {
			continue
		}
		if !printed {
			fmt.Println()
			printed = true
		}
		fmt.Printf("%s accuracy: %d/%d (%.1f%%)\n",
			strings.ToUpper(alg), correct[alg], scored[alg],
			100*float64(correct[alg])/float64(scored[alg]))
	}
}

func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
