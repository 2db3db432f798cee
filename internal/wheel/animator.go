package wheel

import (
	"context"
	"math"
	"math/rand"
	"time"
)

const (
	minExtraTurns = 5
	maxExtraTurns = 8
)

// Plan is one spin's precomputed trajectory: from Start to Final over
// Duration, eased. Final lands exactly on the outcome's target angle
// mod 360.
type Plan struct {
	Start    float64
	Final    float64
	Duration time.Duration
}

// RotationAt returns the rotation at elapsed time into the plan.
// Rotation is a function of the elapsed-time fraction, not of frame
// count, so variable tick rates cannot change where the wheel lands.
func (p Plan) RotationAt(elapsed time.Duration) float64 {
	if p.Duration <= 0 || elapsed >= p.Duration {
		return p.Final
	}
	t := float64(elapsed) / float64(p.Duration)
	return p.Start + (p.Final-p.Start)*easeOutQuart(t)
}

func easeOutQuart(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}

// Animator owns the cumulative rotation for the lifetime of the
// session. The rotation only ever grows; it is read mod 360 when
// compared against a target but never reduced, so crossing a 360
// boundary cannot produce a backward jump. A single goroutine drives
// it: Run must not be called concurrently.
type Animator struct {
	geo      Geometry
	duration time.Duration
	frame    time.Duration
	rng      *rand.Rand

	cumulative float64
}

func NewAnimator(geo Geometry, duration, frame time.Duration, rng *rand.Rand) *Animator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Animator{geo: geo, duration: duration, frame: frame, rng: rng}
}

// Rotation returns the current cumulative rotation in degrees.
func (a *Animator) Rotation() float64 {
	return a.cumulative
}

// PlanSpin computes the next trajectory: forward travel to the
// outcome's target plus 5-8 random full turns for drama.
func (a *Animator) PlanSpin(outcomeIndex int) Plan {
	target := a.geo.TargetAngle(outcomeIndex)
	forward := a.geo.ForwardDelta(a.cumulative, target)
	extras := float64(minExtraTurns+a.rng.Intn(maxExtraTurns-minExtraTurns+1)) * 360
	return Plan{
		Start:    a.cumulative,
		Final:    a.cumulative + extras + forward,
		Duration: a.duration,
	}
}

// Run animates one spin to the server-chosen outcome, invoking onFrame
// with the rotation every tick. On completion the cumulative rotation
// is set to the plan's final value exactly, never a modulo-reduced one.
func (a *Animator) Run(ctx context.Context, outcomeIndex int, onFrame func(rotation float64)) (float64, error) {
	plan := a.PlanSpin(outcomeIndex)

	ticker := time.NewTicker(a.frame)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			// Snap forward to the landing position; rewinding would
			// break monotonicity.
			a.cumulative = plan.Final
			return plan.Final, ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(start)
			rotation := plan.RotationAt(elapsed)
			a.cumulative = rotation
			if onFrame != nil {
				onFrame(rotation)
			}
			if elapsed >= plan.Duration {
				a.cumulative = plan.Final
				return plan.Final, nil
			}
		}
	}
}
