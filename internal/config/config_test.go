package config

import "testing"

func TestShouldMigrate(t *testing.T) {
	tests := []struct {
		name         string
		mode         string
		forceMigrate bool
		want         bool
	}{
		{"debug migrates by default", "debug", false, true},
		{"release skips by default", "release", false, false},
		{"release migrates when forced", "release", true, true},
		{"debug with flag still migrates", "debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ForceMigrate: tt.forceMigrate}
			cfg.Server.Mode = tt.mode
			if got := cfg.ShouldMigrate(); got != tt.want {
				t.Errorf("ShouldMigrate() = %v, want %v", got, tt.want)
			}
		})
	}
}
