// Package logger provides simulation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SimulationLogger provides dedicated logging for simulation operations.
type SimulationLogger struct {
	*logrus.Entry
}

// NewSimulationLogger creates a new simulation logger.
func NewSimulationLogger(baseLogger *logrus.Logger) *SimulationLogger {
	return &SimulationLogger{
		Entry: baseLogger.WithField("component", "simulation"),
	}
}

// LogSimulationRun logs a completed simulation run.
func (sl *SimulationLogger) LogSimulationRun(investmentType string, persisted bool, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"investment_type": investmentType,
		"persisted":       persisted,
		"duration_ms":     durationMs,
	}).Info("Simulation completed")
}

// LogSimulationFailure logs a failed simulation run.
func (sl *SimulationLogger) LogSimulationFailure(investmentType, reason string) {
	sl.WithFields(logrus.Fields{
		"investment_type": investmentType,
		"reason":          reason,
	}).Warn("Simulation rejected")
}

// LogMonteCarloRun logs the shape of a Monte Carlo batch.
func (sl *SimulationLogger) LogMonteCarloRun(trials, years int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"trials":      trials,
		"years":       years,
		"duration_ms": durationMs,
	}).Debug("Monte Carlo batch finished")
}

// LogRecordPersisted logs a stored simulation record.
func (sl *SimulationLogger) LogRecordPersisted(recordID, investmentType string) {
	sl.WithFields(logrus.Fields{
		"record_id":       recordID,
		"investment_type": investmentType,
	}).Info("Simulation record persisted")
}

// LogRecordDeleted logs a removed simulation record.
func (sl *SimulationLogger) LogRecordDeleted(recordID string) {
	sl.WithField("record_id", recordID).Info("Simulation record deleted")
}

// LogRetentionSweep logs the outcome of a retention sweep.
func (sl *SimulationLogger) LogRetentionSweep(removed int64, maxAgeDays int) {
	sl.WithFields(logrus.Fields{
		"records_removed": removed,
		"max_age_days":    maxAgeDays,
		"event_type":      "retention_sweep",
	}).Info("Retention sweep completed")
}
