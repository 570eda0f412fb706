package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	assert.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		d, err := models.ParseDate("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, "2024-01-15", d.String())
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := models.ParseDate("15/01/2024")
		assert.Error(t, err)
	})

	t.Run("TrimsWhitespace", func(t *testing.T) {
		d, err := models.ParseDate(" 2024-01-15 ")
		assert.NoError(t, err)
		assert.Equal(t, "2024-01-15", d.String())
	})
}

func TestDateTruncation(t *testing.T) {
	d := models.NewDate(time.Date(2024, 3, 5, 23, 45, 12, 0, time.UTC))
	assert.Equal(t, "2024-03-05", d.String())

	other := models.NewDate(time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC))
	assert.True(t, d.Equal(other))
}

func TestDateArithmetic(t *testing.T) {
	t.Run("AddDays", func(t *testing.T) {
		d := mustDate(t, "2024-01-31")
		assert.Equal(t, "2024-02-01", d.AddDays(1).String())
		assert.Equal(t, "2024-02-07", d.AddDays(7).String())
	})

	t.Run("AddMonthsClampsDayOfMonth", func(t *testing.T) {
		d := mustDate(t, "2024-01-31")
		assert.Equal(t, "2024-02-29", d.AddMonths(1).String()) // leap year
		assert.Equal(t, "2023-02-28", mustDate(t, "2023-01-31").AddMonths(1).String())
		assert.Equal(t, "2024-03-15", mustDate(t, "2024-02-15").AddMonths(1).String())
	})

	t.Run("AddYears", func(t *testing.T) {
		assert.Equal(t, "2025-02-28", mustDate(t, "2024-02-29").AddYears(1).String())
		assert.Equal(t, "2025-06-10", mustDate(t, "2024-06-10").AddYears(1).String())
	})
}

func TestDateJSON(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		d := mustDate(t, "2024-05-20")
		raw, err := json.Marshal(d)
		assert.NoError(t, err)
		assert.Equal(t, `"2024-05-20"`, string(raw))

		var back models.Date
		assert.NoError(t, json.Unmarshal(raw, &back))
		assert.True(t, d.Equal(back))
	})

	t.Run("AcceptsTimestamp", func(t *testing.T) {
		var d models.Date
		assert.NoError(t, json.Unmarshal([]byte(`"2024-05-20T14:00:00Z"`), &d))
		assert.Equal(t, "2024-05-20", d.String())
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		var d models.Date
		assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &d))
	})
}

func TestStringList(t *testing.T) {
	t.Run("FromString", func(t *testing.T) {
		var l models.StringList
		assert.NoError(t, json.Unmarshal([]byte(`"alice"`), &l))
		assert.Equal(t, "alice", l.Join())
	})

	t.Run("FromArray", func(t *testing.T) {
		var l models.StringList
		assert.NoError(t, json.Unmarshal([]byte(`["alice","bob"]`), &l))
		assert.Equal(t, "alice,bob", l.Join())
	})

	t.Run("Null", func(t *testing.T) {
		var l models.StringList
		assert.NoError(t, json.Unmarshal([]byte(`null`), &l))
		assert.Equal(t, "", l.Join())
	})
}
