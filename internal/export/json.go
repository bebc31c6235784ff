package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/storage"
)

type ExportData struct {
	Run         string             `json:"run"`
	Problem     string             `json:"problem"`
	Theta       float64            `json:"theta"`
	TimeMesh    mesh.Spec          `json:"time_mesh"`
	SpaceMesh   mesh.Spec          `json:"space_mesh"`
	Params      map[string]float64 `json:"params,omitempty"`
	TimeIndices []int              `json:"time_indices"`
	Times       []float64          `json:"times"`
	Space       []float64          `json:"space"`
	Values      [][]float64        `json:"values"`
	Diagnostics map[string]float64 `json:"diagnostics"`
}

func newExportData(meta *storage.RunMetadata, s *storage.Surface) ExportData {
	return ExportData{
		Run:         meta.ID,
		Problem:     meta.Problem,
		Theta:       meta.Theta,
		TimeMesh:    meta.TimeMesh,
		SpaceMesh:   meta.SpaceMesh,
		Params:      meta.Params,
		TimeIndices: s.TimeIndices,
		Times:       s.Times,
		Space:       s.Space,
		Values:      s.Values,
		Diagnostics: meta.Diagnostics,
	}
}

// WriteJSON writes the run and its surface as indented JSON.
func WriteJSON(w io.Writer, meta *storage.RunMetadata, s *storage.Surface) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, s))
}

func ExportJSON(path string, meta *storage.RunMetadata, s *storage.Surface) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, s)
}
