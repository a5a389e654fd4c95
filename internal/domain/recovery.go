package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecoverySignal is one day's wearable/self-report recovery reading.
// Both scores live on a single 0-100 scale.
type RecoverySignal struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Date       time.Time          `bson:"date" json:"date"`
	SleepScore float64            `bson:"sleepScore" json:"sleepScore"` // 0-100
	Readiness  float64            `bson:"readiness" json:"readiness"`   // 0-100
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Neutral-good defaults used when a day has no recorded signal, so absence of
// data never spuriously triggers a deload.
const (
	DefaultSleepScore = 80.0
	DefaultReadiness  = 50.0
)
