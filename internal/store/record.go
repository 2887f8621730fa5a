// Package store persists and reads back analysis results: the structured
// output.yml record, the binary predictor/envelope sidecars, folder
// discovery under a results root, and batch aggregation into comparison
// tables.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/utils"
)

// RecordName is the fixed file name of the structured record inside a
// result folder.
const RecordName = "output.yml"

// Stable key names of the persisted record. These form the file-boundary
// contract with external readers and must not change.
const (
	paramsSectionKey = "parameters"
	corrSectionKey   = "correlations"
	corr2SectionKey  = "correlations_second_best"

	gpsKey      = "gps"
	targetKey   = "target_channel"
	channelsKey = "channels_list"
	outPathKey  = "output_path"
	rateKey     = "sampling_frequency"
	lowpassKey  = "lowpass_frequency"
	bounceKey   = "scattering_factor"
	smoothKey   = "smoothing_window"

	indexKey    = "index"
	channelKey  = "channel"
	corrKey     = "correlation"
	meanFreqKey = "mean_frequency"
)

// Parameters is the write-once parameter group of a record.
type Parameters struct {
	GPSStart      float64
	GPSEnd        float64
	TargetChannel string
	ChannelsList  string
	OutputPath    string
	SamplingRate  float64
	Lowpass       float64
	BounceOrder   int
	SmoothWindow  int
}

// Record is the structured result document. The parameter section is
// immutable once written; correlation sections are replaced as a whole,
// never mutated entry by entry. Readers fail with ErrValueNotFound for any
// absent field instead of returning defaults.
type Record struct {
	content map[string]any
}

// NewRecord creates an empty in-memory record.
func NewRecord() *Record {
	return &Record{content: map[string]any{}}
}

// LoadRecord reads the record from a result folder.
func LoadRecord(dir string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, RecordName))
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	content := map[string]any{}
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return &Record{content: content}, nil
}

// WriteParameters writes the parameter section. The section is write-once;
// a second call fails.
func (r *Record) WriteParameters(p Parameters) error {
	if _, ok := r.content[paramsSectionKey]; ok {
		return fmt.Errorf("parameters section already written")
	}
	r.content[paramsSectionKey] = map[string]any{
		gpsKey:      utils.FormatGPSPair(p.GPSStart, p.GPSEnd),
		targetKey:   p.TargetChannel,
		channelsKey: p.ChannelsList,
		outPathKey:  p.OutputPath,
		rateKey:     p.SamplingRate,
		lowpassKey:  p.Lowpass,
		bounceKey:   p.BounceOrder,
		smoothKey:   p.SmoothWindow,
	}
	return nil
}

// WriteCorrelations replaces the primary correlation section with the given
// entries, assigning 1-based positional indices in order.
func (r *Record) WriteCorrelations(entries []models.CorrelationRecord) {
	r.content[corrSectionKey] = correlationSection(entries)
}

// WriteSecondBestCorrelations replaces the secondary correlation section,
// holding the runner-up culprit per position.
func (r *Record) WriteSecondBestCorrelations(entries []models.CorrelationRecord) {
	r.content[corr2SectionKey] = correlationSection(entries)
}

func correlationSection(entries []models.CorrelationRecord) []any {
	section := make([]any, 0, len(entries))
	for i, e := range entries {
		section = append(section, map[string]any{
			indexKey:    i + 1,
			channelKey:  e.Channel,
			corrKey:     e.Correlation,
			meanFreqKey: e.MeanFrequency,
		})
	}
	return section
}

// Save writes the record into dir as output.yml.
func (r *Record) Save(dir string) error {
	data, err := yaml.Marshal(r.content)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, RecordName), data, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// GPS returns the persisted window bounds.
func (r *Record) GPS() (int64, int64, error) {
	raw, err := r.paramValue(gpsKey)
	if err != nil {
		return 0, 0, err
	}
	s, ok := raw.(string)
	if !ok {
		return 0, 0, utils.ValueNotFoundf("parameter %s is not a gps pair", gpsKey)
	}
	return utils.ParseGPSPair(s)
}

// TargetChannel returns the persisted target channel name.
func (r *Record) TargetChannel() (string, error) {
	return r.paramString(targetKey)
}

// ChannelsList returns the persisted channel-list source identifier.
func (r *Record) ChannelsList() (string, error) {
	return r.paramString(channelsKey)
}

// OutputPath returns the persisted output location.
func (r *Record) OutputPath() (string, error) {
	return r.paramString(outPathKey)
}

// SamplingFrequency returns the resolved sampling rate.
func (r *Record) SamplingFrequency() (float64, error) {
	return r.paramFloat(rateKey)
}

// LowpassFrequency returns the resolved numeric lowpass cutoff.
func (r *Record) LowpassFrequency() (float64, error) {
	return r.paramFloat(lowpassKey)
}

// ScatteringFactor returns the bounce order.
func (r *Record) ScatteringFactor() (int, error) {
	return r.paramInt(bounceKey)
}

// SmoothingWindow returns the smoothing window length in samples.
func (r *Record) SmoothingWindow() (int, error) {
	return r.paramInt(smoothKey)
}

// CorrelationCount returns the number of entries in the primary correlation
// section.
func (r *Record) CorrelationCount() (int, error) {
	section, err := r.correlationEntries(false)
	if err != nil {
		return 0, err
	}
	return len(section), nil
}

// EntryChannel returns the culprit channel at the 1-based position.
func (r *Record) EntryChannel(position int, secondBest bool) (string, error) {
	entry, err := r.correlationEntry(position, secondBest)
	if err != nil {
		return "", err
	}
	s, ok := entry[channelKey].(string)
	if !ok {
		return "", utils.ValueNotFoundf("correlation entry %d has no channel", position)
	}
	return s, nil
}

// EntryCorrelation returns the correlation value at the 1-based position.
func (r *Record) EntryCorrelation(position int, secondBest bool) (float64, error) {
	entry, err := r.correlationEntry(position, secondBest)
	if err != nil {
		return 0, err
	}
	v, ok := asFloat(entry[corrKey])
	if !ok {
		return 0, utils.ValueNotFoundf("correlation entry %d has no correlation", position)
	}
	return v, nil
}

// EntryMeanFrequency returns the culprit mean frequency at the 1-based
// position.
func (r *Record) EntryMeanFrequency(position int, secondBest bool) (float64, error) {
	entry, err := r.correlationEntry(position, secondBest)
	if err != nil {
		return 0, err
	}
	v, ok := asFloat(entry[meanFreqKey])
	if !ok {
		return 0, utils.ValueNotFoundf("correlation entry %d has no mean frequency", position)
	}
	return v, nil
}

func (r *Record) paramValue(key string) (any, error) {
	section, ok := r.content[paramsSectionKey]
	if !ok {
		return nil, utils.ValueNotFoundf("parameters section missing")
	}
	params, ok := asMap(section)
	if !ok {
		return nil, utils.ValueNotFoundf("parameters section malformed")
	}
	value, ok := params[key]
	if !ok {
		return nil, utils.ValueNotFoundf("parameter %s missing", key)
	}
	return value, nil
}

func (r *Record) paramString(key string) (string, error) {
	raw, err := r.paramValue(key)
	if err != nil {
		return "", err
	}
	s, ok := raw.(string)
	if !ok {
		return "", utils.ValueNotFoundf("parameter %s is not a string", key)
	}
	return s, nil
}

func (r *Record) paramFloat(key string) (float64, error) {
	raw, err := r.paramValue(key)
	if err != nil {
		return 0, err
	}
	v, ok := asFloat(raw)
	if !ok {
		return 0, utils.ValueNotFoundf("parameter %s is not numeric", key)
	}
	return v, nil
}

func (r *Record) paramInt(key string) (int, error) {
	raw, err := r.paramValue(key)
	if err != nil {
		return 0, err
	}
	v, ok := asFloat(raw)
	if !ok {
		return 0, utils.ValueNotFoundf("parameter %s is not numeric", key)
	}
	return int(v), nil
}

func (r *Record) correlationEntries(secondBest bool) ([]any, error) {
	key := corrSectionKey
	if secondBest {
		key = corr2SectionKey
	}
	section, ok := r.content[key]
	if !ok {
		return nil, utils.ValueNotFoundf("%s section missing", key)
	}
	entries, ok := section.([]any)
	if !ok {
		return nil, utils.ValueNotFoundf("%s section malformed", key)
	}
	return entries, nil
}

func (r *Record) correlationEntry(position int, secondBest bool) (map[string]any, error) {
	entries, err := r.correlationEntries(secondBest)
	if err != nil {
		return nil, err
	}
	if position < 1 || position > len(entries) {
		return nil, utils.ValueNotFoundf("correlation entry %d out of range", position)
	}
	entry, ok := asMap(entries[position-1])
	if !ok {
		return nil, utils.ValueNotFoundf("correlation entry %d malformed", position)
	}
	return entry, nil
}

// asMap normalises the two mapping shapes seen in a record's lifetime:
// map[string]any built in memory and the generic form produced by yaml
// decoding.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
