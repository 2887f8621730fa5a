package store

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/scatterstack/scatter-culprit/internal/utils"
)

// Sidecar file extensions. Predictor sidecars hold the winning predictor
// signal; envelope sidecars hold the smoothed instantaneous amplitudes.
const (
	PredictorExt = ".predictors"
	EnvelopeExt  = ".envelopes"
)

// SidecarName derives the sidecar file name for a target channel, replacing
// the site separator so the name is filesystem-safe.
func SidecarName(targetChannel, ext string) string {
	return strings.ReplaceAll(targetChannel, ":", "_") + ext
}

// SavePredictors persists the winning predictor signal next to the record.
// Write-once by convention; an existing file is overwritten (last writer
// wins, see the concurrency model).
func SavePredictors(dir, targetChannel string, values []float64) error {
	return writeSidecar(filepath.Join(dir, SidecarName(targetChannel, PredictorExt)), values)
}

// SaveEnvelopes persists smoothed instantaneous amplitudes next to the record.
func SaveEnvelopes(dir, targetChannel string, values []float64) error {
	return writeSidecar(filepath.Join(dir, SidecarName(targetChannel, EnvelopeExt)), values)
}

// LoadPredictors reads back the predictor sidecar in a result folder. The
// folder must contain exactly one.
func LoadPredictors(dir string) ([]float64, error) {
	return readSingleSidecar(dir, PredictorExt)
}

// LoadEnvelopes reads back the envelope sidecar in a result folder.
func LoadEnvelopes(dir string) ([]float64, error) {
	return readSingleSidecar(dir, EnvelopeExt)
}

func readSingleSidecar(dir, ext string) ([]float64, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, utils.ValueNotFoundf("expected exactly one %s file in %s, found %d", ext, dir, len(matches))
	}
	return readSidecar(matches[0])
}

// The binary payload is a little-endian int64 count followed by that many
// little-endian float64 values.
func writeSidecar(path string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sidecar: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, int64(len(values))); err != nil {
		return fmt.Errorf("write sidecar header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, values); err != nil {
		return fmt.Errorf("write sidecar payload: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush sidecar: %w", err)
	}
	return nil
}

func readSidecar(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sidecar: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var count int64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read sidecar header: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("sidecar %s has negative count %d", path, count)
	}
	values := make([]float64, count)
	if err := binary.Read(r, binary.LittleEndian, values); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("sidecar %s truncated: %w", path, err)
		}
		return nil, fmt.Errorf("read sidecar payload: %w", err)
	}
	return values, nil
}
