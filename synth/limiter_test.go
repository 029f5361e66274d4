package synth

import "testing"

func TestLimiterBoundsLoudSignal(t *testing.T) {
	lm := NewLimiter(0.01, 0.1, 48000)

	buf := make([]float32, 4096)
	for i := range buf {
		buf[i] = 2.0
	}

	lm.Apply(buf)

	for i, v := range buf {
		if v > 1.0001 || v < -1.0001 {
			t.Fatalf("buf[%d] = %v, escaped the limiter", i, v)
		}
	}
}

func TestLimiterKeepsSilence(t *testing.T) {
	lm := NewLimiter(0.01, 0.1, 48000)

	buf := make([]float32, 128)
	lm.Apply(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestLimiterFollowerConverges(t *testing.T) {
	lm := NewLimiter(0.001, 0.01, 1000)

	// steady full scale input settles near in/loudness/2 with loudness ~= 1
	buf := make([]float32, 2*10000)
	for i := range buf {
		buf[i] = 1.0
	}
	lm.Apply(buf)

	last := buf[len(buf)-2]
	if last < 0.45 || last > 0.55 {
		t.Errorf("settled output = %v, want about 0.5", last)
	}
}
