package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.March, 5)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-05"`), &parsed))
	assert.Equal(t, d, parsed)

	var null Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &null))
	assert.True(t, null.IsZero())
}

func TestDateRejectsBadFormat(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"05/03/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"2024-13-40"`), &d))
}

func TestDateAfter(t *testing.T) {
	earlier := NewDate(2024, time.January, 1)
	later := NewDate(2024, time.January, 2)

	assert.True(t, later.After(earlier))
	assert.False(t, earlier.After(later))
	assert.False(t, earlier.After(earlier))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.July, 9, 13, 45, 0, 0, time.Local)))
	assert.Equal(t, "2024-07-09", d.String())

	require.NoError(t, d.Scan([]byte("2023-11-30")))
	assert.Equal(t, "2023-11-30", d.String())

	assert.Error(t, d.Scan(42))
}

func TestTimeOfDayJSON(t *testing.T) {
	tod := NewTimeOfDay(9, 30, 0)

	data, err := json.Marshal(tod)
	require.NoError(t, err)
	assert.Equal(t, `"09:30:00"`, string(data))

	var parsed TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"09:30:00"`), &parsed))
	assert.Equal(t, tod, parsed)

	// Minutes-only form is accepted.
	require.NoError(t, json.Unmarshal([]byte(`"14:05"`), &parsed))
	assert.Equal(t, "14:05:00", parsed.String())

	assert.Error(t, json.Unmarshal([]byte(`"25:00:00"`), &parsed))
}

func TestTimeOfDayValue(t *testing.T) {
	v, err := NewTimeOfDay(23, 59, 59).Value()
	require.NoError(t, err)
	assert.Equal(t, "23:59:59", v)

	var zero TimeOfDay
	v, err = zero.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTodayIsNotAfterItself(t *testing.T) {
	assert.False(t, Today().After(Today()))
}
