package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BerylCAtieno/requirements-testgen/internal/extractor"
	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: extract <file> [output.txt]")
	fmt.Fprintln(w, "Supported formats:", strings.Join(extractor.SupportedExtensions, ", "))
	fmt.Fprintln(w, "Example: extract document.pdf")
	fmt.Fprintln(w, "Example: extract report.docx notes.txt")
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 || len(args) > 2 {
		usage(stderr)
		return 1
	}

	output := ""
	if len(args) == 2 {
		output = args[1]
	}

	logger := utils.NewLoggerTo(stderr, os.Getenv("LOG_LEVEL"))
	ex := extractor.New(logger)

	if _, err := ex.ExtractFile(args[0], output); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	if output == "" {
		output = extractor.DefaultOutputPath(args[0])
	}
	fmt.Fprintln(stdout, "Text extracted and saved:", output)
	return 0
}
