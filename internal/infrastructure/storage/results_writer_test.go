package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"plant-phenotyper/internal/domain/entity"
)

func TestJSONResultsWriter_Write(t *testing.T) {
	res := entity.NewResults()
	res.SetMetadata("run_id", "abc")
	res.Add(entity.AnalysisRecord{
		Image:       "plate1.csv",
		Sample:      "WT_1",
		Measurement: "thermal",
		Area:        42,
		Observations: []entity.Observation{
			{Variable: "mean_temp", Trait: "mean temperature", Scale: "degrees", Datatype: "float", Value: 23.5, Label: "degrees"},
		},
	})
	res.Add(entity.AnalysisRecord{Sample: "HLP_1", Measurement: "thermal"})

	path := filepath.Join(t.TempDir(), "nested", "result.json")
	require.NoError(t, NewJSONResultsWriter().Write(context.Background(), path, res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Metadata map[string]string `json:"metadata"`
		Entities []struct {
			Image        string                    `json:"image"`
			Sample       string                    `json:"sample"`
			Area         int                       `json:"area"`
			Observations map[string]map[string]any `json:"observations"`
		} `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, "abc", doc.Metadata["run_id"])
	require.Len(t, doc.Entities, 2)
	require.Equal(t, "WT_1", doc.Entities[0].Sample)
	require.Equal(t, "HLP_1", doc.Entities[1].Sample)
	require.Equal(t, 42, doc.Entities[0].Area)
	require.Equal(t, 23.5, doc.Entities[0].Observations["mean_temp"]["value"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
