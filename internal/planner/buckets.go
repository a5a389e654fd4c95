package planner

import "github.com/shourjoguha/Gainsly-sub000/internal/domain"

// BucketScores are the raw per-bucket allocation scores, on the same 0-10
// scale as the goal weights.
type BucketScores map[Bucket]float64

// AllocateBuckets maps a goal weighting onto bucket scores by summing, for
// each goal, weight x the goal's static bucket share. Pure and deterministic.
func (c Config) AllocateBuckets(goals domain.GoalWeights) BucketScores {
	scores := BucketScores{
		BucketLifting:  0,
		BucketCardio:   0,
		BucketFinisher: 0,
		BucketMobility: 0,
	}
	for _, gw := range goals {
		if gw.Weight <= 0 {
			continue
		}
		shares, ok := c.BucketShares[gw.Goal]
		if !ok {
			continue
		}
		for bucket, share := range shares {
			scores[bucket] += float64(gw.Weight) * share
		}
	}
	return scores
}

// BucketMinutes converts bucket scores into minute budgets against the total
// available training minutes for the cycle, dividing by the max weight sum,
// then caps cardio and mobility at their configured ceiling fractions.
func (c Config) BucketMinutes(scores BucketScores, totalMinutes int) map[Bucket]int {
	minutes := map[Bucket]int{}
	for bucket, score := range scores {
		minutes[bucket] = int(score * float64(totalMinutes) / float64(domain.GoalWeightSum))
	}
	cardioCap := int(c.CardioCeilingFraction * float64(totalMinutes))
	if minutes[BucketCardio] > cardioCap {
		minutes[BucketCardio] = cardioCap
	}
	mobilityCap := int(c.MobilityCeilingFraction * float64(totalMinutes))
	if minutes[BucketMobility] > mobilityCap {
		minutes[BucketMobility] = mobilityCap
	}
	return minutes
}
