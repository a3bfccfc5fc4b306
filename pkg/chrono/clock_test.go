package chrono

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"10:00", 600, false},
		{"04:21", 261, false},
		{"0:05", 5, false},
		{"00:00", 0, false},
		{"4:5", 0, true},
		{"04:60", 0, true},
		{"-1:00", 0, true},
		{"0421", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateClock(t *testing.T) {
	assert.NoError(t, ValidateClock(models.Q4, "10:00"))
	assert.Error(t, ValidateClock(models.Q4, "10:01"))
	assert.NoError(t, ValidateClock(models.OT1, "05:00"))
	assert.Error(t, ValidateClock(models.OT2, "06:00"))
}

func TestClockSecondsIsLenient(t *testing.T) {
	assert.Equal(t, 90, ClockSeconds("01:30"))
	assert.Equal(t, 0, ClockSeconds("garbage"))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "10:00", FormatClock(600))
	assert.Equal(t, "00:07", FormatClock(7))
	assert.Equal(t, "24:35", FormatClock(1475))
	assert.Equal(t, "00:00", FormatClock(-3))
}

func TestPeriodSeconds(t *testing.T) {
	assert.Equal(t, QuarterSeconds, PeriodSeconds(models.Q1))
	assert.Equal(t, OvertimeSeconds, PeriodSeconds(models.OT3))
}
