package todo

import (
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIfAllowed(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", true},
		{"buy milk", true},
		{"multi\nline", true},
		{"a|b", false},
		{"|", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckIfAllowed(tt.text))
		})
	}
}

func TestShortenName(t *testing.T) {
	t.Run("long name is truncated", func(t *testing.T) {
		item := New("This is a very long task name", "", PriorityLow)

		got := item.ShortenName()
		assert.Equal(t, "This is a very lo...", got)
		assert.Len(t, []rune(got), MaxNameLength)
	})

	t.Run("name at limit is unchanged", func(t *testing.T) {
		item := New("exactly twenty chars", "", PriorityLow)
		assert.Equal(t, "exactly twenty chars", item.ShortenName())
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		item := New(strings.Repeat("é", 21), "", PriorityLow)
		assert.Equal(t, strings.Repeat("é", 17)+"...", item.ShortenName())
	})
}

func TestToggleStatus(t *testing.T) {
	item := New("water plants", "", PriorityMedium)
	original := item.Status
	require.Equal(t, StatusUnfinished, original)

	item.ToggleStatus()
	assert.Equal(t, StatusFinished, item.Status)
	assert.True(t, item.IsFinished())

	item.ToggleStatus()
	assert.Equal(t, original, item.Status)
}

func TestNewAt_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, loc)

	item := NewAt("call mom", "", PriorityHigh, created)

	assert.Equal(t, time.UTC, item.CreatedDate.Location())
	assert.True(t, item.CreatedDate.Equal(created))
	assert.Equal(t, StatusUnfinished, item.Status)
}

func TestValidate(t *testing.T) {
	t.Run("valid item", func(t *testing.T) {
		assert.NoError(t, New("pay rent", "before the 5th", PriorityHigh).Validate())
	})

	t.Run("empty name", func(t *testing.T) {
		err := New("  ", "", PriorityLow).Validate()
		require.ErrorIs(t, err, ErrValidation)

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.Len(t, fieldErrs, 1)
		assert.Equal(t, "display_name", fieldErrs[0].Field)
	})

	t.Run("delimiter in name and description", func(t *testing.T) {
		err := New("a|b", "c|d", PriorityLow).Validate()
		require.ErrorIs(t, err, ErrValidation)

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.Len(t, fieldErrs, 2)
		assert.Equal(t, "display_name", fieldErrs[0].Field)
		assert.Equal(t, "description", fieldErrs[1].Field)
	})

	t.Run("created date year out of range", func(t *testing.T) {
		for _, year := range []int{-1, 10000} {
			item := NewAt("x", "", PriorityLow, time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC))

			err := item.Validate()
			require.ErrorIs(t, err, ErrValidation)

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, "created_date", fieldErrs[0].Field)
		}
	})

	t.Run("created date year bounds", func(t *testing.T) {
		for _, year := range []int{0, 9999} {
			item := NewAt("x", "", PriorityLow, time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC))
			assert.NoError(t, item.Validate())
		}
	})

	t.Run("unknown enums", func(t *testing.T) {
		item := New("x", "", Priority("URGENT"))
		item.Status = Status("DONE")

		err := item.Validate()
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "URGENT")
	})
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Finished ")
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, s)

	_, err = ParseStatus("done")
	assert.Error(t, err)
}

func TestPriorityRank(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Zero(t, Priority("").Rank())
}

func TestItemEqual(t *testing.T) {
	now := time.Now()
	a := NewAt("x", "y", PriorityLow, now)
	b := NewAt("x", "y", PriorityLow, now.In(time.FixedZone("other", 3600)))

	assert.True(t, a.Equal(b))

	b.ToggleStatus()
	assert.False(t, a.Equal(b))
}
