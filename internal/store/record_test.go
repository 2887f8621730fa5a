package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/utils"
)

func sampleParameters(dir string) Parameters {
	return Parameters{
		GPSStart:      1000,
		GPSEnd:        1010,
		TargetChannel: "V1:TARGET",
		ChannelsList:  "channels.txt",
		OutputPath:    dir,
		SamplingRate:  256,
		Lowpass:       1.88,
		BounceOrder:   2,
		SmoothWindow:  50,
	}
}

func TestRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()

	rec := NewRecord()
	require.NoError(t, rec.WriteParameters(sampleParameters(dir)))
	rec.WriteCorrelations([]models.CorrelationRecord{
		{Channel: "V1:AUX_B", Correlation: 0.97, MeanFrequency: 0.42},
		{Channel: "V1:AUX_A", Correlation: 0.12, MeanFrequency: 0.9},
	})
	rec.WriteSecondBestCorrelations([]models.CorrelationRecord{
		{Channel: "V1:AUX_A", Correlation: 0.12, MeanFrequency: 0.9},
	})
	require.NoError(t, rec.Save(dir))

	loaded, err := LoadRecord(dir)
	require.NoError(t, err)

	start, end, err := loaded.GPS()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), start)
	assert.Equal(t, int64(1010), end)

	target, err := loaded.TargetChannel()
	require.NoError(t, err)
	assert.Equal(t, "V1:TARGET", target)

	channels, err := loaded.ChannelsList()
	require.NoError(t, err)
	assert.Equal(t, "channels.txt", channels)

	outPath, err := loaded.OutputPath()
	require.NoError(t, err)
	assert.Equal(t, dir, outPath)

	rate, err := loaded.SamplingFrequency()
	require.NoError(t, err)
	assert.Equal(t, 256.0, rate)

	lowpass, err := loaded.LowpassFrequency()
	require.NoError(t, err)
	assert.Equal(t, 1.88, lowpass)

	bounce, err := loaded.ScatteringFactor()
	require.NoError(t, err)
	assert.Equal(t, 2, bounce)

	smooth, err := loaded.SmoothingWindow()
	require.NoError(t, err)
	assert.Equal(t, 50, smooth)

	count, err := loaded.CorrelationCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	channel, err := loaded.EntryChannel(1, false)
	require.NoError(t, err)
	assert.Equal(t, "V1:AUX_B", channel)

	corr, err := loaded.EntryCorrelation(2, false)
	require.NoError(t, err)
	assert.Equal(t, 0.12, corr)

	freq, err := loaded.EntryMeanFrequency(1, false)
	require.NoError(t, err)
	assert.Equal(t, 0.42, freq)

	second, err := loaded.EntryChannel(1, true)
	require.NoError(t, err)
	assert.Equal(t, "V1:AUX_A", second)
}

func TestRecordParametersWriteOnce(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, rec.WriteParameters(sampleParameters("out")))
	assert.Error(t, rec.WriteParameters(sampleParameters("out")))
}

func TestRecordCorrelationsReplaceWholeSection(t *testing.T) {
	rec := NewRecord()
	rec.WriteCorrelations([]models.CorrelationRecord{
		{Channel: "V1:AUX_A", Correlation: 0.5, MeanFrequency: 1},
		{Channel: "V1:AUX_B", Correlation: 0.4, MeanFrequency: 2},
	})
	rec.WriteCorrelations([]models.CorrelationRecord{
		{Channel: "V1:AUX_C", Correlation: 0.9, MeanFrequency: 3},
	})

	count, err := rec.CorrelationCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	channel, err := rec.EntryChannel(1, false)
	require.NoError(t, err)
	assert.Equal(t, "V1:AUX_C", channel)
}

func TestRecordMissingValues(t *testing.T) {
	rec := NewRecord()

	_, err := rec.TargetChannel()
	assert.ErrorIs(t, err, utils.ErrValueNotFound)

	_, _, err = rec.GPS()
	assert.ErrorIs(t, err, utils.ErrValueNotFound)

	_, err = rec.EntryChannel(1, false)
	assert.ErrorIs(t, err, utils.ErrValueNotFound)

	rec.WriteCorrelations([]models.CorrelationRecord{{Channel: "V1:AUX_A"}})
	_, err = rec.EntryChannel(2, false)
	assert.ErrorIs(t, err, utils.ErrValueNotFound)
	_, err = rec.EntryChannel(0, false)
	assert.ErrorIs(t, err, utils.ErrValueNotFound)
	_, err = rec.EntryChannel(1, true)
	assert.ErrorIs(t, err, utils.ErrValueNotFound)
}

func TestLoadRecordMissingFile(t *testing.T) {
	_, err := LoadRecord(t.TempDir())
	assert.Error(t, err)
}
