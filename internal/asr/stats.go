package asr

import (
	"fmt"
	"strings"
)

// Stats captures timing for a decode run.
type Stats struct {
	NumThreads     int
	DecodingMethod string
	AudioSeconds   float64 // total duration of the decoded audio
	ElapsedSeconds float64 // wall-clock processing time
}

// RTF returns the real-time factor: processing time divided by audio time.
// Values below 1.0 mean faster than real time.
func (s *Stats) RTF() float64 {
	if s.AudioSeconds <= 0 {
		return 0
	}
	return s.ElapsedSeconds / s.AudioSeconds
}

// Summary formats the timing statistics as printable lines.
func (s *Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "num_threads: %d\n", s.NumThreads)
	fmt.Fprintf(&b, "decoding_method: %s\n", s.DecodingMethod)
	fmt.Fprintf(&b, "Wave duration: %.3f s\n", s.AudioSeconds)
	fmt.Fprintf(&b, "Elapsed time: %.3f s\n", s.ElapsedSeconds)
	fmt.Fprintf(&b, "Real time factor (RTF): %.3f/%.3f = %.3f\n",
		s.ElapsedSeconds, s.AudioSeconds, s.RTF())
	return b.String()
}
