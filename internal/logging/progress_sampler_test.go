package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name      string
		every     int
		wantEvery int
	}{
		{"default interval for zero", 0, DefaultProgressInterval},
		{"default interval for negative", -5, DefaultProgressInterval},
		{"custom interval", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.every)
			if s.every != tt.wantEvery {
				t.Errorf("every = %d, want %d", s.every, tt.wantEvery)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(1) {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSampler_Multiples(t *testing.T) {
	s := NewProgressSampler(10)
	var logged []int
	for count := 0; count <= 35; count++ {
		if s.ShouldLog(count) {
			logged = append(logged, count)
		}
	}
	want := []int{10, 20, 30}
	if len(logged) != len(want) {
		t.Fatalf("logged at %v, want %v", logged, want)
	}
	for i := range want {
		if logged[i] != want[i] {
			t.Fatalf("logged at %v, want %v", logged, want)
		}
	}
}

func TestProgressSampler_SkippedCounts(t *testing.T) {
	s := NewProgressSampler(10)
	if !s.ShouldLog(25) {
		t.Error("jumping past a multiple should log")
	}
	if s.ShouldLog(29) {
		t.Error("same bucket should not log twice")
	}
	s.Reset()
	if !s.ShouldLog(12) {
		t.Error("reset sampler should log again")
	}
}
