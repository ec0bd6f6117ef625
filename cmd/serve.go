package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkral/faceid/internal/config"
	"github.com/tkral/faceid/internal/facedb"
	"github.com/tkral/faceid/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recognition API server",
	Long: `Start the HTTP API server.

The server reports the trained model and recognizes faces on uploaded
images. Train a model first with "faceid train"; without one the
recognition endpoints respond with 503.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("set", "", "Path to the set file (default from config)")
	serveCmd.Flags().String("data", "", "Path to the data file (default from config)")
	serveCmd.Flags().Int("port", 0, "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setPath, dataPath := resolveModelPaths(cmd, cfg.Model.SetPath, cfg.Model.DataPath)

	port := mustGetInt(cmd, "port")
	if port == 0 {
		port = cfg.Server.Port
	}
	host := mustGetString(cmd, "host")
	if host == "" {
		host = cfg.Server.Host
	}

	db, err := facedb.Load(setPath, dataPath)
	if err != nil {
		fmt.Printf("Warning: no model loaded (%v)\n", err)
		fmt.Println("Recognition endpoints will return 503 until a model is trained")
		db = nil
	} else {
		fmt.Printf("Loaded model: %d images, %d classes, algorithms: %s\n",
			db.NumImages(), db.NumClasses(), strings.Join(db.Algorithms(), ", "))
	}

	server := web.NewServer(cfg, db, host, port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting faceid API on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
