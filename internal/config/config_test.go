package config

import "testing"

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != DefaultPort || cfg.DictionaryPath != DefaultDictionaryPath || cfg.Workers != DefaultWorkers {
		t.Fatalf("Parse(nil) = %+v, want defaults", cfg)
	}
}

func TestParse_AllFlags(t *testing.T) {
	cfg, err := Parse([]string{"-p", "9999", "-t", "8", "-d", "mywords"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != 9999 || cfg.Workers != 8 || cfg.DictionaryPath != "mywords" {
		t.Fatalf("Parse = %+v, want {9999 mywords 8}", cfg)
	}
}

func TestParse_WorkersBelowOneRevertsToDefault(t *testing.T) {
	cfg, err := Parse([]string{"-t", "0"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Workers != DefaultWorkers {
		t.Fatalf("Workers = %d, want default %d", cfg.Workers, DefaultWorkers)
	}

	cfg, err = Parse([]string{"-t", "-3"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Workers != DefaultWorkers {
		t.Fatalf("Workers = %d, want default %d", cfg.Workers, DefaultWorkers)
	}
}

func TestParse_InvalidPortRevertsToDefault(t *testing.T) {
	cfg, err := Parse([]string{"-p", "notanumber"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Fatalf("Port = %d, want default %d", cfg.Port, DefaultPort)
	}
}

func TestParse_MissingValue(t *testing.T) {
	_, err := Parse([]string{"-p"})
	if err == nil {
		t.Fatal("Parse: expected error for missing value, got nil")
	}
}

func TestParse_UnknownFlag(t *testing.T) {
	_, err := Parse([]string{"-x", "1"})
	if err == nil {
		t.Fatal("Parse: expected error for unknown flag, got nil")
	}
}
