package export

import (
	"fmt"

	"github.com/san-kum/fdpde/internal/storage"
)

// SelectLayers returns up to n evenly spaced layer positions of s, always
// including the first and the last.
func SelectLayers(s *storage.Surface, n int) []int {
	total := s.NumLayers()
	if total == 0 || n <= 0 {
		return nil
	}
	if n >= total {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if n == 1 {
		return []int{total - 1}
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		p := i * (total - 1) / (n - 1)
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	return out
}

func checkLayers(s *storage.Surface, layers []int) error {
	if len(layers) == 0 {
		return fmt.Errorf("export: no layers selected")
	}
	for _, p := range layers {
		if p < 0 || p >= s.NumLayers() {
			return fmt.Errorf("export: layer %d out of range [0, %d)", p, s.NumLayers())
		}
	}
	return nil
}
