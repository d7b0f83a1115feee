package climate

import (
	"errors"
	"testing"
)

func TestValidateReading(t *testing.T) {
	tests := []struct {
		name        string
		temperature *float64
		humidity    *float64
		wantErr     bool
	}{
		{"both dimensions in range", ptr(21.5), ptr(45.0), false},
		{"temperature only", ptr(21.5), nil, false},
		{"humidity only", nil, ptr(45.0), false},
		{"both absent", nil, nil, true},
		{"temperature at lower bound", ptr(-50.0), nil, false},
		{"temperature at upper bound", ptr(100.0), nil, false},
		{"temperature below bound", ptr(-50.1), nil, true},
		{"temperature above bound", ptr(150.0), nil, true},
		{"humidity at lower bound", nil, ptr(0.0), false},
		{"humidity at upper bound", nil, ptr(100.0), false},
		{"humidity below bound", nil, ptr(-0.1), true},
		{"humidity above bound", nil, ptr(101.0), true},
		{"valid temperature, invalid humidity", ptr(21.0), ptr(120.0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading := &SensorReading{
				SensorID:    "sensor-1",
				Temperature: tt.temperature,
				Humidity:    tt.humidity,
			}
			err := ValidateReading(reading)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateReading() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidReading) {
				t.Errorf("ValidateReading() error = %v, want ErrInvalidReading", err)
			}
		})
	}
}

func TestValidateRoom(t *testing.T) {
	tests := []struct {
		name    string
		room    Room
		wantErr bool
	}{
		{
			name:    "valid limits",
			room:    Room{Name: "Office", TempMin: ptr(18.0), TempMax: ptr(25.0), HumidityMin: ptr(30.0), HumidityMax: ptr(60.0)},
			wantErr: false,
		},
		{
			name:    "no limits at all",
			room:    Room{Name: "Office"},
			wantErr: false,
		},
		{
			name:    "single bound only",
			room:    Room{Name: "Office", TempMax: ptr(28.0)},
			wantErr: false,
		},
		{
			name:    "empty name",
			room:    Room{TempMin: ptr(18.0), TempMax: ptr(25.0)},
			wantErr: true,
		},
		{
			name:    "temp min equals max",
			room:    Room{Name: "Office", TempMin: ptr(20.0), TempMax: ptr(20.0)},
			wantErr: true,
		},
		{
			name:    "temp min above max",
			room:    Room{Name: "Office", TempMin: ptr(26.0), TempMax: ptr(25.0)},
			wantErr: true,
		},
		{
			name:    "humidity min above max",
			room:    Room{Name: "Office", HumidityMin: ptr(70.0), HumidityMax: ptr(60.0)},
			wantErr: true,
		},
		{
			name:    "humidity limits outside percent range",
			room:    Room{Name: "Office", HumidityMin: ptr(-10.0), HumidityMax: ptr(110.0)},
			wantErr: true,
		},
		{
			name:    "lone humidity bound outside percent range",
			room:    Room{Name: "Office", HumidityMax: ptr(110.0)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoom(&tt.room)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoom() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidThreshold) {
				t.Errorf("ValidateRoom() error = %v, want ErrInvalidThreshold", err)
			}
		})
	}
}
