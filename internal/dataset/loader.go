// Package dataset loads labelled news corpora from a CSV file or from a
// folder with Fake/ and Real/ subdirectories.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/sahte/internal/extract"
	"github.com/ppiankov/sahte/internal/model"
)

var (
	// ErrPathNotFound is returned when the dataset path does not exist
	ErrPathNotFound = errors.New("dataset: path not found")

	// ErrMissingColumns is returned when a CSV lacks the text or label column
	ErrMissingColumns = errors.New("dataset: CSV must contain columns text,label")

	// ErrMissingDirectories is returned when a folder lacks Fake/ or Real/
	ErrMissingDirectories = errors.New("dataset: folder must contain Fake/ and Real/ directories")

	// ErrEmptyCorpus is returned when no usable document was found
	ErrEmptyCorpus = errors.New("dataset: no usable documents")

	// ErrInvalidLabel is returned for CSV labels other than 0 and 1
	ErrInvalidLabel = errors.New("dataset: label must be 0 or 1")
)

// Folder names and the labels they carry
const (
	FakeDir = "Fake"
	RealDir = "Real"
)

// Loader reads corpora. The zero value is not usable; call NewLoader.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load reads a CSV file or a Fake/Real folder. Input errors are returned
// before any document is produced; unreadable folder files are skipped.
func (l *Loader) Load(path string) ([]model.Document, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrPathNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	if info.IsDir() {
		return l.loadFolder(path)
	}
	return l.loadCSVFile(path)
}

func (l *Loader) loadCSVFile(path string) ([]model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	docs, err := l.LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// LoadCSV reads a CSV stream with a header row containing text and label.
// Rows with an empty text or label are dropped.
func (l *Loader) LoadCSV(r io.Reader) ([]model.Document, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file: %w", ErrMissingColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	textCol, labelCol := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch name {
		case "text":
			textCol = i
		case "label":
			labelCol = i
		}
	}
	if textCol < 0 || labelCol < 0 {
		return nil, fmt.Errorf("found columns %v: %w", header, ErrMissingColumns)
	}

	var docs []model.Document
	dropped := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		if textCol >= len(rec) || labelCol >= len(rec) {
			dropped++
			continue
		}
		text := strings.ToValidUTF8(rec[textCol], "")
		rawLabel := strings.TrimSpace(rec[labelCol])
		if strings.TrimSpace(text) == "" || rawLabel == "" {
			dropped++
			continue
		}

		label, err := parseLabel(rawLabel)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		docs = append(docs, model.Document{
			Text:     text,
			Label:    label,
			HasLabel: true,
			Source:   fmt.Sprintf("csv:%d", line),
		})
	}

	l.logger.Info("Loaded CSV dataset",
		zap.Int("documents", len(docs)),
		zap.Int("dropped", dropped))

	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}
	return docs, nil
}

// parseLabel accepts 0 and 1, also written as floats ("1.0")
func parseLabel(s string) (model.Label, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidLabel)
	}
	switch v {
	case 0:
		return model.LabelFake, nil
	case 1:
		return model.LabelReal, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidLabel)
	}
}

func (l *Loader) loadFolder(root string) ([]model.Document, error) {
	dirs := []struct {
		name  string
		label model.Label
	}{
		{FakeDir, model.LabelFake},
		{RealDir, model.LabelReal},
	}

	// 1. Both directories must exist before anything is read
	for _, d := range dirs {
		info, err := os.Stat(filepath.Join(root, d.name))
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%s: %w", root, ErrMissingDirectories)
		}
	}

	// 2. Read every supported file, skipping failures
	var docs []model.Document
	for _, d := range dirs {
		dir := filepath.Join(root, d.name)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", dir, err)
		}

		files, usable := 0, 0
		for _, e := range entries {
			if e.IsDir() || !supported(e.Name()) {
				continue
			}
			files++

			path := filepath.Join(dir, e.Name())
			text, err := readDocument(path)
			if err != nil {
				l.logger.Warn("Skipping unreadable file", zap.String("path", path), zap.Error(err))
				continue
			}
			if text == "" {
				l.logger.Debug("Skipping empty file", zap.String("path", path))
				continue
			}

			usable++
			docs = append(docs, model.Document{
				Text:     text,
				Label:    d.label,
				HasLabel: true,
				Source:   path,
			})
		}

		l.logger.Info("Loaded folder",
			zap.String("dir", dir),
			zap.String("label", d.label.String()),
			zap.Int("files", files),
			zap.Int("usable", usable))
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: %w", root, ErrEmptyCorpus)
	}
	return docs, nil
}

// supported reports whether a file name has a readable extension
func supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".html", ".htm":
		return true
	}
	return false
}

// readDocument returns the trimmed text of a file. HTML files are reduced to
// their visible text plus cited links. Invalid UTF-8 bytes are dropped.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	data = bytes.ToValidUTF8(data, nil)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		a, err := extract.ParseArticle(bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(a.Document()), nil
	default:
		return strings.TrimSpace(string(data)), nil
	}
}

// ReadLines returns the non-blank lines of a file, skipping # comments
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.ToValidUTF8(scanner.Text(), ""))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}
