package model

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/heart-risk-server/internal/domain"
)

// labelColumn is the name of the outcome column in the reference dataset.
const labelColumn = "target"

// Dataset is a parsed reference dataset: feature columns in file order, one
// design row per record and a binary label per row.
type Dataset struct {
	Columns []string
	Design  []domain.FeatureVector
	Labels  []int
}

// LoadDataset reads the reference CSV. The header row names the columns; the
// target column may appear at any position and every other column is a
// feature. Exactly domain.FeatureCount feature columns are required.
func LoadDataset(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset %s has no data records", path)
	}

	header := records[0]
	labelIdx := -1
	columns := make([]string, 0, len(header)-1)
	for i, name := range header {
		if name == labelColumn {
			labelIdx = i
			continue
		}
		columns = append(columns, name)
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("dataset %s has no %q column", path, labelColumn)
	}
	if len(columns) != domain.FeatureCount {
		return nil, fmt.Errorf("dataset %s has %d feature columns, expected %d",
			path, len(columns), domain.FeatureCount)
	}

	design := make([]domain.FeatureVector, 0, len(records)-1)
	labels := make([]int, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2
		if len(record) != len(header) {
			return nil, fmt.Errorf("dataset %s line %d: expected %d columns, got %d",
				path, line, len(header), len(record))
		}

		var row domain.FeatureVector
		col := 0
		for j, cell := range record {
			if j == labelIdx {
				label, err := strconv.Atoi(cell)
				if err != nil || (label != 0 && label != 1) {
					return nil, fmt.Errorf("dataset %s line %d: invalid target %q", path, line, cell)
				}
				labels = append(labels, label)
				continue
			}
			val, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset %s line %d column %s: %w", path, line, header[j], err)
			}
			row[col] = val
			col++
		}
		design = append(design, row)
	}

	return &Dataset{Columns: columns, Design: design, Labels: labels}, nil
}
