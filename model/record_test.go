package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTimeUnmarshalJSON(t *testing.T) {
	t.Run("Decode unix integer timestamp", func(t *testing.T) {
		var ts FlexTime
		err := json.Unmarshal([]byte(`1700000000`), &ts)

		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), ts.Unix())
	})

	t.Run("Decode unix timestamp as string", func(t *testing.T) {
		var ts FlexTime
		err := json.Unmarshal([]byte(`"1700000000"`), &ts)

		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), ts.Unix())
	})

	t.Run("Decode RFC 3339 timestamp", func(t *testing.T) {
		var ts FlexTime
		err := json.Unmarshal([]byte(`"2023-11-14T22:13:20Z"`), &ts)

		require.NoError(t, err)
		assert.Equal(t, 2023, ts.Year())
		assert.Equal(t, time.November, ts.Month())
	})

	t.Run("Decode date-only timestamp", func(t *testing.T) {
		var ts FlexTime
		err := json.Unmarshal([]byte(`"2023-11-14"`), &ts)

		require.NoError(t, err)
		assert.Equal(t, 14, ts.Day())
	})

	t.Run("Decode null as zero time", func(t *testing.T) {
		var ts FlexTime
		err := json.Unmarshal([]byte(`null`), &ts)

		require.NoError(t, err)
		assert.True(t, ts.IsZero())
	})

	t.Run("Reject unsupported format", func(t *testing.T) {
		var ts FlexTime
		err := json.Unmarshal([]byte(`"next tuesday"`), &ts)

		assert.Error(t, err)
	})

	t.Run("Decode full commit record", func(t *testing.T) {
		raw := `{
			"hash": "a1f8c3d",
			"author": "Peter",
			"email": "peter@example.com",
			"timestamp": 1700000100,
			"subject": "Implement Web3Auth authentication",
			"files_changed": ["auth_service.dart"]
		}`

		var record CommitRecord
		err := json.Unmarshal([]byte(raw), &record)

		require.NoError(t, err)
		assert.Equal(t, "a1f8c3d", record.Hash)
		assert.Equal(t, "Peter", record.Author)
		assert.Equal(t, int64(1700000100), record.Timestamp.Unix())
		assert.Equal(t, []string{"auth_service.dart"}, record.FilesChanged)
	})
}

func TestFlexTimeMarshalJSON(t *testing.T) {
	t.Run("Marshal zero time as null", func(t *testing.T) {
		bytes, err := json.Marshal(FlexTime{})

		require.NoError(t, err)
		assert.Equal(t, "null", string(bytes))
	})

	t.Run("Marshal time as RFC 3339", func(t *testing.T) {
		ts := FlexTime{Time: time.Unix(1700000000, 0).UTC()}
		bytes, err := json.Marshal(ts)

		require.NoError(t, err)
		assert.Equal(t, `"2023-11-14T22:13:20Z"`, string(bytes))
	})
}
