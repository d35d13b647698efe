package model

import "time"

// TrainingSession is one completed training event.
// Only StartTime, EndTime and Score feed derived metrics; the counters are display data.
type TrainingSession struct {
	ID                string    `json:"id"`
	PlayerID          string    `json:"playerId"`
	TrainerName       string    `json:"trainerName"`
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	Score             float64   `json:"score"`
	NumberOfBalls     int       `json:"numberOfBalls"`
	NumberOfGoals     int       `json:"numberOfGoals"`
	BestStreak        int       `json:"bestStreak"`
	AvgSpeedOfPlay    float64   `json:"avgSpeedOfPlay"`
	NumberOfExercises int       `json:"numberOfExercises"`
}

// Duration is EndTime minus StartTime. It is negative when EndTime precedes StartTime.
func (s TrainingSession) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Hours is Duration expressed in fractional hours.
func (s TrainingSession) Hours() float64 {
	return s.Duration().Hours()
}

// Appointment is an upcoming booked training slot.
type Appointment struct {
	ID          string    `json:"id"`
	PlayerID    string    `json:"playerId"`
	TrainerName string    `json:"trainerName"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}
