package synth

// Limiter keeps the output from clipping. It tracks a per-channel loudness
// follower with separate attack and falloff rates and divides the signal by
// it, so loud passages are squashed instead of wrapping.
type Limiter struct {
	loudnessL float32
	loudnessR float32
	velocityL float32
	velocityR float32

	Attack  float32
	Falloff float32

	strength  float32
	minThresh float32
}

// NewLimiter takes attack and release times in seconds.
func NewLimiter(attack, release, sampleRate float32) *Limiter {
	return &Limiter{
		loudnessL: 1,
		loudnessR: 1,
		Attack:    attack * sampleRate,
		Falloff:   release * sampleRate,
		strength:  1,
		minThresh: 0.4,
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Apply limits buffer in place. buffer holds interleaved stereo samples.
func (lm *Limiter) Apply(buffer []float32) {
	count := len(buffer)

	for i := 0; i+1 < count; i += 2 {
		l := abs32(buffer[i])
		r := abs32(buffer[i+1])

		if lm.loudnessL > l {
			lm.loudnessL = (lm.loudnessL*lm.Falloff + l) / (lm.Falloff + 1)
		} else {
			lm.loudnessL = (lm.loudnessL*lm.Attack + l) / (lm.Attack + 1)
		}

		if lm.loudnessR > r {
			lm.loudnessR = (lm.loudnessR*lm.Falloff + r) / (lm.Falloff + 1)
		} else {
			lm.loudnessR = (lm.loudnessR*lm.Attack + r) / (lm.Attack + 1)
		}

		if lm.loudnessL < lm.minThresh {
			lm.loudnessL = lm.minThresh
		}
		if lm.loudnessR < lm.minThresh {
			lm.loudnessR = lm.minThresh
		}

		l = buffer[i] / (lm.loudnessL*lm.strength + 2*(1-lm.strength)) / 2
		r = buffer[i+1] / (lm.loudnessR*lm.strength + 2*(1-lm.strength)) / 2

		if i != 0 {
			dl := abs32(buffer[i] - l)
			dr := abs32(buffer[i+1] - r)

			if lm.velocityL > dl {
				lm.velocityL = (lm.velocityL*lm.Falloff + dl) / (lm.Falloff + 1)
			} else {
				lm.velocityL = (lm.velocityL*lm.Attack + dl) / (lm.Attack + 1)
			}

			if lm.velocityR > dr {
				lm.velocityR = (lm.velocityR*lm.Falloff + dr) / (lm.Falloff + 1)
			} else {
				lm.velocityR = (lm.velocityR*lm.Attack + dr) / (lm.Attack + 1)
			}
		}

		buffer[i] = l
		buffer[i+1] = r
	}
}
