package cmd

import (
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tkral/faceid/internal/config"
	"github.com/tkral/faceid/internal/facedb"
	"github.com/tkral/faceid/internal/subspace"
)

var trainCmd = &cobra.Command{
	Use:   "train [dir]",
	Short: "Train a face database from a directory of images",
	Long: `Train subspace models from a directory of face images.

The directory either contains one subdirectory per person (the directory
name becomes the person's name) or flat files named <class>_<name>.<ext>.
All images must share the same dimensions unless --resize is given.

PCA (eigenfaces) is always trained. LDA (Fisherfaces) and ICA add
discriminant and statistically independent bases on top of it.

Examples:
  # Train eigenfaces only
  faceid train ./faces

  # Train all three algorithms and resize inputs
  faceid train ./faces --lda --ica --resize 92x112`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().String("set", "", "Output path for the set file (default from config)")
	trainCmd.Flags().String("data", "", "Output path for the data file (default from config)")
	trainCmd.Flags().Bool("lda", false, "Also train an LDA (Fisherface) basis")
	trainCmd.Flags().Bool("ica", false, "Also train an ICA basis")
	trainCmd.Flags().String("resize", "", "Resize images to WIDTHxHEIGHT before training")
	trainCmd.Flags().Int64("seed", 0, "Random seed for ICA block shuffling")
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setPath, dataPath := resolveModelPaths(cmd, cfg.Model.SetPath, cfg.Model.DataPath)

	width, height, err := parseSize(mustGetString(cmd, "resize"))
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Loading faces"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)

	opts := facedb.TrainOptions{
		LDA: mustGetBool(cmd, "lda"),
		ICA: mustGetBool(cmd, "ica"),
		ICAParams: subspace.ICAParams{
			MaxIterations: cfg.ICA.MaxIterations,
			BlockSize:     cfg.ICA.BlockSize,
			LearningRate:  cfg.ICA.LearningRate,
			Anneal:        cfg.ICA.Anneal,
			Tolerance:     cfg.ICA.Tolerance,
			Seed:          mustGetInt64(cmd, "seed"),
		},
		ResizeWidth:  width,
		ResizeHeight: height,
		OnProgress: func(done, total int) {
			bar.ChangeMax(total)
			_ = bar.Set(done)
		},
	}

	db, err := facedb.Train(args[0], opts)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	fmt.Println()

	fmt.Printf("Trained %d images across %d classes (%d pixels each)\n",
		db.NumImages(), db.NumClasses(), db.NumDimensions())
	fmt.Printf("Algorithms: %s\n", strings.Join(db.Algorithms(), ", "))

	if err := db.Save(setPath, dataPath); err != nil {
		return fmt.Errorf("saving model: %w", err)
	}
	fmt.Printf("Model saved to %s and %s\n", setPath, dataPath)

	return nil
}
