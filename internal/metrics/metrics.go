// Package metrics defines the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provisioning metrics
var (
	// UsersProvisionedTotal tracks accounts created through provisioning.
	UsersProvisionedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "users_provisioned_total",
			Help: "Total number of accounts created by provisioning, by source",
		},
		[]string{"source"}, // source: "bulk", "single"
	)

	// UsersDeletedTotal tracks deleted accounts.
	UsersDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_deleted_total",
			Help: "Total number of deleted accounts",
		},
	)

	// BulkBatchesTotal tracks processed bulk batches by outcome.
	BulkBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulk_batches_total",
			Help: "Total number of processed bulk batches by operation and outcome",
		},
		[]string{"operation", "outcome"}, // operation: "create", "delete"; outcome: "ok", "blocked"
	)

	// BulkBatchDuration tracks bulk batch processing duration.
	BulkBatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bulk_batch_duration_seconds",
			Help:    "Bulk batch processing duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"operation"},
	)

	// BulkItemsTotal tracks per-item outcomes inside bulk create batches.
	BulkItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulk_items_total",
			Help: "Total number of bulk create items by outcome",
		},
		[]string{"outcome"}, // outcome: "created", "duplicate", "error"
	)

	// ProvisionRollbacksTotal tracks compensating identity deletes.
	ProvisionRollbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "provision_rollbacks_total",
			Help: "Total number of provisioning rollbacks after a partial failure",
		},
	)
)

// Email metrics
var (
	// EmailsSentTotal tracks successful email dispatches.
	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of successfully sent emails by template",
		},
		[]string{"template"},
	)

	// EmailsFailedTotal tracks failed email dispatches.
	EmailsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_failed_total",
			Help: "Total number of failed email dispatches by template",
		},
		[]string{"template"},
	)
)

// Questionnaire metrics
var (
	// ResponsesSavedTotal tracks saved labor-hours responses.
	ResponsesSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "responses_saved_total",
			Help: "Total number of saved labor-hours responses",
		},
	)

	// QuestionnairesSubmittedTotal tracks finalized response sets.
	QuestionnairesSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "questionnaires_submitted_total",
			Help: "Total number of submitted questionnaires",
		},
	)
)

// Auth metrics
var (
	// LoginsTotal tracks login attempts by result.
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"}, // result: "success", "failure", "locked"
	)
)
