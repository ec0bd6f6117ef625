package cmd

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tkral/faceid/internal/config"
	"github.com/tkral/faceid/internal/constants"
	"github.com/tkral/faceid/internal/facedb"
	"github.com/tkral/faceid/internal/pnm"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show a summary of a trained face database",
	Long: `Show a summary of a trained face database: image and class counts,
trained algorithms and the images per person.

The model stores faces as flat pixel vectors, so exporting the mean face
or the leading basis faces as PGM images requires the original image
geometry via --size.

Examples:
  # Print the model summary
  faceid info

  # Export the mean face and the 10 strongest eigenfaces
  faceid info --size 92x112 --mean-out mean.pgm --faces-out ./eigenfaces`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().String("set", "", "Path to the set file (default from config)")
	infoCmd.Flags().String("data", "", "Path to the data file (default from config)")
	infoCmd.Flags().String("mean-out", "", "Write the mean face as a PGM image to this path")
	infoCmd.Flags().String("faces-out", "", "Write leading basis faces as PGM images into this directory")
	infoCmd.Flags().Int("count", constants.DefaultBasisExportCount, "Number of basis faces to export")
	infoCmd.Flags().String("size", "", "Image geometry WIDTHxHEIGHT used during training")
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setPath, dataPath := resolveModelPaths(cmd, cfg.Model.SetPath, cfg.Model.DataPath)

	db, err := facedb.Load(setPath, dataPath)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	fmt.Printf("Images:     %d\n", db.NumImages())
	fmt.Printf("Classes:    %d\n", db.NumClasses())
	fmt.Printf("Dimensions: %d pixels\n", db.NumDimensions())
	fmt.Printf("Algorithms: %s\n", strings.Join(db.Algorithms(), ", "))
	fmt.Println()

	printClassTable(db.Entries())

	meanOut := mustGetString(cmd, "mean-out")
	facesOut := mustGetString(cmd, "faces-out")
	if meanOut == "" && facesOut == "" {
		return nil
	}

	width, height, err := parseSize(mustGetString(cmd, "size"))
	if err != nil {
		return err
	}
	if width == 0 {
		return errors.New("--size WIDTHxHEIGHT is required when exporting images")
	}

	if meanOut != "" {
		img, err := db.MeanFaceImage(width, height)
		if err != nil {
			return fmt.Errorf("rendering mean face: %w", err)
		}
		if err := writePGMFile(meanOut, img); err != nil {
			return err
		}
		fmt.Printf("Mean face written to %s\n", meanOut)
	}

	if facesOut != "" {
		count := mustGetInt(cmd, "count")
		if count > db.NumImages() {
			count = db.NumImages()
		}
		if err := os.MkdirAll(facesOut, 0750); err != nil {
			return fmt.Errorf("creating %s: %w", facesOut, err)
		}
		for i := 0; i < count; i++ {
			img, err := db.BasisImage(i, width, height)
			if err != nil {
				return fmt.Errorf("rendering basis face %d: %w", i, err)
			}
			path := filepath.Join(facesOut, fmt.Sprintf("eigenface%02d.pgm", i))
			if err := writePGMFile(path, img); err != nil {
				return err
			}
		}
		fmt.Printf("%d basis faces written to %s\n", count, facesOut)
	}

	return nil
}

func printClassTable(entries []facedb.Entry) {
	type classInfo struct {
		name  string
		count int
	}
	classes := make(map[int]*classInfo)
	var order []int

	// Entries are sorted by class, so order collects ascending class ids.
	for _, e := range entries {
		ci, ok := classes[e.Class]
		if !ok {
			ci = &classInfo{name: e.Name}
			classes[e.Class] = ci
			order = append(order, e.Class)
		}
		ci.count++
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CLASS\tNAME\tIMAGES")
	fmt.Fprintln(w, "-----\t----\t------")
	for _, class := range order {
		ci := classes[class]
		fmt.Fprintf(w, "%d\t%s\t%d\n", class, ci.name, ci.count)
	}
	w.Flush()
}

func writePGMFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := pnm.EncodePGM(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
