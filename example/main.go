package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/urfave/cli/v3"

	"github.com/cristip73/pdfreflow"
)

func main() {
	cmd := &cli.Command{
		Name:  "pdfreflow",
		Usage: "Convert PDF files to clean, reflowed markdown",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input PDF file path",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output markdown file path (default: stdout)",
			},
			&cli.FloatFlag{
				Name:  "tolerance",
				Usage: "Link annotation matching tolerance in layout units",
				Value: 10.0,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent page reflow workers",
				Value: 4,
			},
			&cli.BoolFlag{
				Name:  "best-effort",
				Usage: "Replace failed pages with a marker instead of aborting",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Log processing metrics",
			},
		},
		Action: convertPDF,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func convertPDF(_ context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")
	outputPath := cmd.String("output")

	// Initialise pdfium
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise pdfium: %w", err)
	}
	defer pool.Close()

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return fmt.Errorf("failed to get pdfium instance: %w", err)
	}

	converter := pdfreflow.NewConverterWithConfig(instance, pdfreflow.Config{
		LinkTolerance:        cmd.Float("tolerance"),
		PageWorkers:          cmd.Int("workers"),
		BestEffort:           cmd.Bool("best-effort"),
		EnableMetricsLogging: cmd.Bool("metrics"),
	})

	info, err := converter.GetDocumentInfo(inputPath)
	if err != nil {
		return fmt.Errorf("failed to get document info: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Converting PDF with %d pages...\n", info.PageCount)

	markdown, err := converter.ConvertFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to convert PDF: %w", err)
	}

	if outputPath != "" {
		err = os.WriteFile(outputPath, []byte(markdown), 0644)
		if err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Markdown written to %s\n", outputPath)
	} else {
		fmt.Println(markdown)
	}

	return nil
}
