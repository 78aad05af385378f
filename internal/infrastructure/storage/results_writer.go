package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"plant-phenotyper/internal/domain/entity"
)

// JSONResultsWriter writes accumulated results as one JSON document.
type JSONResultsWriter struct{}

func NewJSONResultsWriter() *JSONResultsWriter {
	return &JSONResultsWriter{}
}

type resultsFile struct {
	Metadata map[string]string `json:"metadata"`
	Entities []entityJSON      `json:"entities"`
}

type entityJSON struct {
	Image        string                     `json:"image,omitempty"`
	Sample       string                     `json:"sample"`
	Measurement  string                     `json:"measurement"`
	Area         int                        `json:"area"`
	Observations map[string]observationJSON `json:"observations"`
}

type observationJSON struct {
	Trait    string `json:"trait"`
	Method   string `json:"method"`
	Scale    string `json:"scale"`
	Datatype string `json:"datatype"`
	Value    any    `json:"value"`
	Label    any    `json:"label"`
}

// Write replaces path atomically: the document goes to a temp file in the same
// directory first.
func (w *JSONResultsWriter) Write(ctx context.Context, path string, results *entity.Results) error {
	_ = ctx
	doc := resultsFile{Metadata: results.Metadata(), Entities: make([]entityJSON, 0, results.Len())}
	for _, rec := range results.Records() {
		obs := make(map[string]observationJSON, len(rec.Observations))
		for _, o := range rec.Observations {
			obs[o.Variable] = observationJSON{
				Trait:    o.Trait,
				Method:   o.Method,
				Scale:    o.Scale,
				Datatype: o.Datatype,
				Value:    o.Value,
				Label:    o.Label,
			}
		}
		doc.Entities = append(doc.Entities, entityJSON{
			Image:        rec.Image,
			Sample:       rec.Sample,
			Measurement:  rec.Measurement,
			Area:         rec.Area,
			Observations: obs,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".results-*.json")
	if err != nil {
		return fmt.Errorf("create temp results: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close results: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename results: %w", err)
	}
	return nil
}
