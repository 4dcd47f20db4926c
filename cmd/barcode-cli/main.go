package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yashubustudio/barcodeanalyzer/analyzer"
)

type cliOptions struct {
	configPath string
	imagePath  string
	csvPath    string
	jsonPath   string
	outputDir  string
	notesPath  string
	tryHarder  bool
	stdout     bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("barcode-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("barcode-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.imagePath, "image", "", "Image file containing Code128 barcodes (PNG/JPEG/BMP/GIF)")
	flag.StringVar(&opts.csvPath, "csv", "", "CSV file to write results (default uses --output-dir/result_*.csv)")
	flag.StringVar(&opts.jsonPath, "json", "", "JSON file to write the index/code/note mapping")
	flag.StringVar(&opts.outputDir, "output-dir", "csv", "Directory where result CSVs are written when --csv is omitted")
	flag.StringVar(&opts.notesPath, "notes", "", "Previously exported JSON mapping whose notes are applied by index")
	flag.BoolVar(&opts.tryHarder, "try-harder", true, "Spend more time searching the image for barcodes")
	flag.BoolVar(&opts.stdout, "stdout", false, "Print a result summary to STDOUT")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --image FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.imagePath = strings.TrimSpace(opts.imagePath)
	opts.csvPath = strings.TrimSpace(opts.csvPath)
	opts.jsonPath = strings.TrimSpace(opts.jsonPath)
	opts.outputDir = strings.TrimSpace(opts.outputDir)
	opts.notesPath = strings.TrimSpace(opts.notesPath)

	if opts.imagePath == "" {
		flag.Usage()
		return opts, errors.New("missing required --image file")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := analyzer.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.TryHarder = opts.tryHarder

	img, err := analyzer.DecodeImageFile(opts.imagePath)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	service := analyzer.NewService(analyzer.NewZXingDecoder(cfg.TryHarder), "", cfg, logger)

	gen := service.BeginSession()
	out, err := service.Decode(context.Background(), img, gen)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	if opts.notesPath != "" {
		notes, err := analyzer.LoadNotesFile(opts.notesPath)
		if err != nil {
			return fmt.Errorf("read notes mapping: %w", err)
		}
		for index, note := range notes {
			service.SetNote(index, note)
		}
	}
	rows := service.Rows()

	csvPath, err := resolveCSVPath(opts.csvPath, opts.outputDir)
	if err != nil {
		return err
	}
	if err := analyzer.SaveRows(csvPath, rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	fmt.Printf("解析結果を %s に保存しました\n", csvPath)

	if opts.jsonPath != "" {
		if err := analyzer.SaveRows(opts.jsonPath, rows); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		fmt.Printf("マッピングを %s に保存しました\n", opts.jsonPath)
	}

	if opts.stdout {
		printSummary(out.Report, rows)
	}
	return nil
}

func resolveCSVPath(path, dir string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return absPath, nil
	}
	if dir == "" {
		dir = "csv"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	filename := fmt.Sprintf("result_%s.csv", time.Now().Format("20060102150405"))
	return filepath.Join(absDir, filename), nil
}

func printSummary(rep analyzer.Report, rows []analyzer.ResultRow) {
	fmt.Println()
	fmt.Println("==== 解析結果プレビュー ====")
	fmt.Printf("検出 %d件 / Code128 %d件 / 表示 %d件\n", rep.Total, rep.Accepted, rep.Shown)
	if rep.Shown != analyzer.MaxResults {
		fmt.Printf("※ 期待値は%d件です\n", analyzer.MaxResults)
	}
	for _, row := range rows {
		fmt.Printf("%d. %s\n", row.Index, row.Code)
		fmt.Printf("    提案: %s\n", row.Suggestion)
		if row.Note != "" {
			fmt.Printf("    メモ: %s\n", row.Note)
		}
	}
	if len(rows) == 0 {
		fmt.Println("バーコードは検出されませんでした")
	}
}
