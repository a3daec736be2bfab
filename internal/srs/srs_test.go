package srs

import (
	"testing"

	"github.com/rcliao/retain/internal/model"
	"github.com/rcliao/retain/internal/params"
)

func testWeights() params.Weights {
	return params.Default().Weights
}

func TestRetrievabilityAtZeroElapsed(t *testing.T) {
	w := testWeights()
	for _, stability := range []float64{0.5, 1, 10, 100} {
		r, err := Retrievability(stability, 0, w.Decay)
		if err != nil {
			t.Fatalf("retrievability: %v", err)
		}
		if r < 0.99 {
			t.Errorf("stability %v: expected r(0) > 0.99, got %v", stability, r)
		}
	}
}

func TestRetrievabilityStrictlyDecreasing(t *testing.T) {
	w := testWeights()
	prev := 1.1
	for elapsed := 0.0; elapsed <= 100; elapsed++ {
		r, err := Retrievability(5, elapsed, w.Decay)
		if err != nil {
			t.Fatalf("retrievability: %v", err)
		}
		if r >= prev {
			t.Fatalf("elapsed %v: r=%v not strictly below previous %v", elapsed, r, prev)
		}
		if r <= 0 || r > 1 {
			t.Fatalf("elapsed %v: r=%v outside (0, 1]", elapsed, r)
		}
		prev = r
	}
}

func TestRetrievabilityIncreasesWithStability(t *testing.T) {
	w := testWeights()
	prev := -1.0
	for _, stability := range []float64{1, 2, 5, 20, 100} {
		r, _ := Retrievability(stability, 10, w.Decay)
		if r <= prev {
			t.Fatalf("stability %v: r=%v not above %v", stability, r, prev)
		}
		prev = r
	}
}

func TestRetrievabilityRejectsBadDomain(t *testing.T) {
	w := testWeights()
	if _, err := Retrievability(5, -1, w.Decay); err == nil {
		t.Error("expected error for negative elapsed days")
	}
	if _, err := Retrievability(0, 1, w.Decay); err == nil {
		t.Error("expected error for non-positive stability")
	}
}

func TestRetrievabilityIsPure(t *testing.T) {
	w := testWeights()
	a, _ := Retrievability(7, 3, w.Decay)
	b, _ := Retrievability(7, 3, w.Decay)
	if a != b {
		t.Errorf("identical inputs gave %v then %v", a, b)
	}
}

func TestSuccessNeverShrinksStability(t *testing.T) {
	w := testWeights()
	for _, rating := range []model.Rating{model.RatingHard, model.RatingGood, model.RatingEasy} {
		for _, stability := range []float64{0.5, 5, 50} {
			for _, difficulty := range []float64{1, 5, 10} {
				r, _ := Retrievability(stability, stability, w.Decay)
				next := NextStability(difficulty, stability, r, rating, w)
				if next < stability {
					t.Errorf("rating %v d=%v s=%v: stability shrank to %v", rating, difficulty, stability, next)
				}
			}
		}
	}
}

func TestEasyGrowsMoreThanHard(t *testing.T) {
	w := testWeights()
	r, _ := Retrievability(10, 10, w.Decay)
	hard := NextStability(5, 10, r, model.RatingHard, w)
	good := NextStability(5, 10, r, model.RatingGood, w)
	easy := NextStability(5, 10, r, model.RatingEasy, w)
	if !(hard < good && good < easy) {
		t.Errorf("expected hard < good < easy, got %v, %v, %v", hard, good, easy)
	}
}

func TestLapseShrinksStability(t *testing.T) {
	w := testWeights()
	for _, stability := range []float64{1, 5, 20, 100} {
		r, _ := Retrievability(stability, stability, w.Decay)
		next := NextStability(5, stability, r, model.RatingAgain, w)
		if next >= stability {
			t.Errorf("s=%v: lapse did not shrink stability (got %v)", stability, next)
		}
		if next < model.MinStability {
			t.Errorf("s=%v: lapse went below the stability floor (got %v)", stability, next)
		}
	}
}

func TestLapseAtStabilityFloorStaysAtFloor(t *testing.T) {
	// A prior at the floor cannot shrink further; the strict-decrease
	// property applies only above MinStability.
	w := testWeights()
	next := NextStability(5, model.MinStability, 0.5, model.RatingAgain, w)
	if next != model.MinStability {
		t.Errorf("expected stability to hold at the floor %v, got %v", model.MinStability, next)
	}
}

func TestNextIntervalBoundsAndMonotonicity(t *testing.T) {
	p := params.Default()
	prev := 0
	for _, stability := range []float64{0.01, 0.5, 1, 5, 20, 100, 1000, 100000} {
		days := NextInterval(stability, p)
		if days < 1 || days > p.MaximumInterval {
			t.Fatalf("s=%v: interval %d outside [1, %d]", stability, days, p.MaximumInterval)
		}
		if days < prev {
			t.Fatalf("s=%v: interval %d below previous %d", stability, days, prev)
		}
		prev = days
	}
}

func TestNextIntervalMatchesStabilityAtCalibration(t *testing.T) {
	// At 90% desired retention the interval is the stability itself.
	p := params.Default()
	if got := NextInterval(20, p); got != 20 {
		t.Errorf("expected interval 20 at s=20 with 90%% retention, got %d", got)
	}
}

func TestNextIntervalRespectsRetention(t *testing.T) {
	// Conservative (higher retention) must schedule sooner than
	// aggressive (lower retention) for the same stability.
	shorter := NextInterval(30, params.Conservative())
	longer := NextInterval(30, params.Aggressive())
	if shorter >= longer {
		t.Errorf("expected conservative interval (%d) < aggressive (%d)", shorter, longer)
	}
}

func TestInitialDifficultyOrdering(t *testing.T) {
	w := testWeights()
	again := InitialDifficulty(model.RatingAgain, w)
	hard := InitialDifficulty(model.RatingHard, w)
	good := InitialDifficulty(model.RatingGood, w)
	easy := InitialDifficulty(model.RatingEasy, w)
	if !(easy < good && good < hard && hard < again) {
		t.Errorf("expected easy < good < hard < again, got %v, %v, %v, %v", easy, good, hard, again)
	}
}

func TestNextDifficultyStaysClamped(t *testing.T) {
	w := testWeights()
	d := 10.0
	for i := 0; i < 50; i++ {
		d = NextDifficulty(d, model.RatingAgain, w)
		if d < model.MinDifficulty || d > model.MaxDifficulty {
			t.Fatalf("difficulty %v escaped [1, 10]", d)
		}
	}
	d = 1.0
	for i := 0; i < 50; i++ {
		d = NextDifficulty(d, model.RatingEasy, w)
		if d < model.MinDifficulty || d > model.MaxDifficulty {
			t.Fatalf("difficulty %v escaped [1, 10]", d)
		}
	}
}

func TestMeanReversionPullsTowardBaseline(t *testing.T) {
	w := testWeights()
	// A long run of Good ratings (no step) should drift toward the
	// Easy baseline instead of staying put.
	d := 9.0
	for i := 0; i < 200; i++ {
		d = NextDifficulty(d, model.RatingGood, w)
	}
	baseline := w.InitialDifficulty - w.DifficultyScale
	if diff := d - baseline; diff > 0.1 || diff < -0.1 {
		t.Errorf("difficulty %v did not converge near baseline %v", d, baseline)
	}
}
