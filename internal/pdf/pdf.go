// Package pdf wraps the PDF-specific steps of ingestion: pulling title,
// description, and page count out of an uploaded file, and rendering a cover
// image from its first page. Both steps shell out to the poppler tools
// (pdfinfo, pdftoppm) when they are installed; each degrades cleanly when
// they are not, so ingestion never depends on them being present.
package pdf

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnavailable is returned when the underlying tool is not installed.
// Callers fall back to filename-derived metadata or skip the cover.
var ErrUnavailable = errors.New("pdf tool not available")

// Metadata is what extraction yields from a file. Empty fields mean the file
// did not declare them.
type Metadata struct {
	Title       string
	Description string
	PageCount   int
}

// MetadataExtractor pulls embedded metadata out of a PDF file.
type MetadataExtractor interface {
	Extract(ctx context.Context, path string) (Metadata, error)
}

// CoverGenerator renders a cover image from the first page of a PDF and
// writes it into destDir, returning the generated filename.
type CoverGenerator interface {
	Generate(ctx context.Context, path, destDir string) (string, error)
}

const toolTimeout = 20 * time.Second

// PopplerExtractor extracts metadata with pdfinfo, falling back to a lexical
// page scan of the raw file when the tool is missing.
type PopplerExtractor struct{}

// Extract runs pdfinfo on the file and parses its key/value output. When
// pdfinfo is not installed the page count is estimated from the raw bytes and
// title/subject stay empty.
func (PopplerExtractor) Extract(ctx context.Context, path string) (Metadata, error) {
	bin, err := exec.LookPath("pdfinfo")
	if err != nil {
		pages, scanErr := countPagesLexically(path)
		if scanErr != nil {
			return Metadata{}, scanErr
		}
		return Metadata{PageCount: pages}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin, path).Output()
	if err != nil {
		return Metadata{}, fmt.Errorf("pdfinfo %s: %w", filepath.Base(path), err)
	}

	var md Metadata
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch key {
		case "Title":
			md.Title = val
		case "Subject":
			md.Description = val
		case "Pages":
			if n, err := strconv.Atoi(val); err == nil {
				md.PageCount = n
			}
		}
	}
	return md, nil
}

// PopplerCover renders page one to PNG with pdftoppm. Width controls the
// rendered size; zero means 480px.
type PopplerCover struct {
	Width int
}

// Generate writes <stem>.png into destDir and returns that filename, or
// ErrUnavailable when pdftoppm is not installed.
func (g PopplerCover) Generate(ctx context.Context, path, destDir string) (string, error) {
	bin, err := exec.LookPath("pdftoppm")
	if err != nil {
		return "", ErrUnavailable
	}

	width := g.Width
	if width <= 0 {
		width = 480
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outBase := filepath.Join(destDir, stem)

	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin,
		"-png", "-f", "1", "-singlefile",
		"-scale-to-x", strconv.Itoa(width), "-scale-to-y", "-1",
		path, outBase)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm %s: %w: %s", filepath.Base(path), err, bytes.TrimSpace(out))
	}
	return stem + ".png", nil
}

// countPagesLexically estimates the page count by counting page-object
// markers in the raw file. Good enough as a fallback; linearized or
// compressed object streams may hide pages from it, yielding zero.
func countPagesLexically(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n := bytes.Count(data, []byte("/Type /Page")) + bytes.Count(data, []byte("/Type/Page"))
	n -= bytes.Count(data, []byte("/Type /Pages")) + bytes.Count(data, []byte("/Type/Pages"))
	if n < 0 {
		n = 0
	}
	return n, nil
}

var titleCaser = cases.Title(language.English)

// TitleFromFilename derives a human-readable title from an upload's filename:
// extension stripped, separators turned into spaces, words title-cased.
func TitleFromFilename(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Untitled Document"
	}
	return titleCaser.String(base)
}
