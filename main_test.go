package main

import (
	"errors"
	"testing"

	"github.com/pthm-cable/savanna/config"
)

func TestCheckHeadless(t *testing.T) {
	tests := []struct {
		name      string
		timeScale float64
		want      error
	}{
		{"normal speed", 1, nil},
		{"fast forward", 4, nil},
		{"stopped clock", 0, errFrozen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.MustLoad("")
			cfg.Physics.TimeScale = tt.timeScale
			if got := checkHeadless(cfg); !errors.Is(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
