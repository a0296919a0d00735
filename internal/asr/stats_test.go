package asr

import (
	"math"
	"strings"
	"testing"
)

func TestStatsRTF(t *testing.T) {
	tests := []struct {
		name    string
		audio   float64
		elapsed float64
		want    float64
	}{
		{"faster than real time", 10.0, 2.5, 0.25},
		{"slower than real time", 2.0, 3.0, 1.5},
		{"zero audio", 0, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stats{AudioSeconds: tt.audio, ElapsedSeconds: tt.elapsed}
			if got := s.RTF(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RTF() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestStatsSummary(t *testing.T) {
	s := &Stats{
		NumThreads:     2,
		DecodingMethod: DecodingGreedySearch,
		AudioSeconds:   8.0,
		ElapsedSeconds: 2.0,
	}

	summary := s.Summary()
	for _, want := range []string{
		"num_threads: 2",
		"decoding_method: greedy_search",
		"Wave duration: 8.000 s",
		"Elapsed time: 2.000 s",
		"Real time factor (RTF): 2.000/8.000 = 0.250",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary() missing %q:\n%s", want, summary)
		}
	}
}
