package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/enstruman/enstruman/pkg/analysis"
	"github.com/enstruman/enstruman/pkg/classifier"
	"github.com/enstruman/enstruman/pkg/labels"
	"github.com/enstruman/enstruman/pkg/server"
	"github.com/enstruman/enstruman/pkg/trace"
)

var (
	modelPath   string
	labelPath   string
	profileName string
	profileFile string
	onnxLibPath string
	listenAddr  string
)

func main() {
	godotenv.Load()

	ctx := context.Background()
	if err := trace.Initialize(ctx, trace.DefaultConfig()); err != nil {
		log.Printf("tracing disabled: %v", err)
	}
	defer trace.Shutdown(ctx)

	root := &cobra.Command{
		Use:          "enstruman",
		Short:        "Instrument recognition over WAV recordings",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&modelPath, "model", os.Getenv("ENSTRUMAN_MODEL"), "path to the ONNX model file")
	root.PersistentFlags().StringVar(&labelPath, "labels", os.Getenv("ENSTRUMAN_LABELS"), "path to the companion label file")
	root.PersistentFlags().StringVar(&profileName, "profile", "general", "preset profile: whole-clip, general or custom")
	root.PersistentFlags().StringVar(&profileFile, "profile-file", "", "YAML profile descriptor (overrides --profile)")
	root.PersistentFlags().StringVar(&onnxLibPath, "onnx-lib", os.Getenv("ONNXRUNTIME_LIB"), "path to libonnxruntime")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <recording.wav>",
		Short: "Classify the instruments in one WAV recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis pipeline over HTTP and WebSocket",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "listen address")

	root.AddCommand(analyzeCmd, serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	analyzer, cleanup, err := buildAnalyzer()
	if err != nil {
		return err
	}
	defer cleanup()

	wav, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read recording: %w", err)
	}

	verdict, err := analyzer.Analyze(cmd.Context(), wav)
	if err != nil {
		return err
	}
	if !verdict.Detected() {
		fmt.Println("no confident detection")
		return nil
	}
	for _, label := range verdict {
		fmt.Println(label)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	analyzer, cleanup, err := buildAnalyzer()
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := server.DefaultConfig()
	cfg.Addr = listenAddr
	srv := server.NewServer(cfg, analyzer)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Printf("shutting down")
		return srv.Shutdown(context.Background())
	}
}

// buildAnalyzer loads the model, its label table and the variant profile.
func buildAnalyzer() (*analysis.Analyzer, func(), error) {
	if modelPath == "" {
		return nil, nil, fmt.Errorf("--model is required (or set ENSTRUMAN_MODEL)")
	}
	if labelPath == "" {
		return nil, nil, fmt.Errorf("--labels is required (or set ENSTRUMAN_LABELS)")
	}

	var profile analysis.Profile
	if profileFile != "" {
		p, err := analysis.LoadProfile(profileFile)
		if err != nil {
			return nil, nil, err
		}
		profile = p
	} else {
		p, ok := analysis.ProfileByName(profileName)
		if !ok {
			return nil, nil, fmt.Errorf("unknown profile %q", profileName)
		}
		profile = p
	}

	if err := classifier.InitRuntime(onnxLibPath); err != nil {
		return nil, nil, err
	}
	cls, err := classifier.NewONNXClassifier(classifier.Config{ModelPath: modelPath})
	if err != nil {
		return nil, nil, err
	}

	table, err := loadLabelTable(labelPath, profile.LabelFormat)
	if err != nil {
		cls.Destroy()
		return nil, nil, err
	}

	analyzer, err := analysis.NewAnalyzer(cls, table, profile)
	if err != nil {
		cls.Destroy()
		return nil, nil, err
	}

	cleanup := func() {
		cls.Destroy()
		classifier.DestroyRuntime()
	}
	return analyzer, cleanup, nil
}

func loadLabelTable(path string, format analysis.LabelFormat) (labels.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open label file: %w", err)
	}
	defer f.Close()

	if format == analysis.LabelFormatCSV {
		return labels.ParseCSV(f)
	}
	return labels.ParseLines(f)
}
