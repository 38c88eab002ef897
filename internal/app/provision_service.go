package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/laborhours/api/internal/metrics"
	"github.com/laborhours/api/pkg/domain/access"
	"github.com/laborhours/api/pkg/domain/profile"
	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/provisioning"
	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/domain/user"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/password"
)

// PasswordHasher hashes temporary passwords for new accounts.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// ProvisionService creates and deletes accounts. An account is four records
// behind one identity: the identity itself, the reporting profile, the role
// assignment and the process grants. Creation writes them in that order and
// compensates a partial failure by deleting the identity, which cascades to
// whatever steps had completed.
type ProvisionService struct {
	users     user.Repository
	profiles  profile.Repository
	roles     role.Repository
	access    access.Repository
	processes process.Repository
	hasher    PasswordHasher
	logger    *logger.Logger
}

// NewProvisionService creates a new ProvisionService.
func NewProvisionService(
	users user.Repository,
	profiles profile.Repository,
	roles role.Repository,
	accessRepo access.Repository,
	processes process.Repository,
	hasher PasswordHasher,
	log *logger.Logger,
) *ProvisionService {
	return &ProvisionService{
		users:     users,
		profiles:  profiles,
		roles:     roles,
		access:    accessRepo,
		processes: processes,
		hasher:    hasher,
		logger:    log.With("service", "provision"),
	}
}

// BulkCreateUsers provisions a batch of accounts. Every row lands in exactly
// one report bucket: created, duplicate or error. The batch always runs to
// completion; a bad row never aborts the rest.
//
// Duplicate detection uses a snapshot of existing emails taken once before
// the batch and extended with each in-batch success, so the second
// occurrence of an email inside one file is reported as a duplicate.
func (s *ProvisionService) BulkCreateUsers(ctx context.Context, items []provisioning.BatchItem) (*provisioning.CreateReport, error) {
	start := time.Now()

	taken, err := s.snapshotEmails(ctx)
	if err != nil {
		metrics.BulkBatchesTotal.WithLabelValues("create", "blocked").Inc()
		return nil, err
	}

	categories, err := s.processes.ListActiveCategoryIndexes(ctx)
	if err != nil {
		metrics.BulkBatchesTotal.WithLabelValues("create", "blocked").Inc()
		return nil, fmt.Errorf("failed to load process categories: %w", err)
	}
	classifier := provisioning.NewClassifier(categories)

	report := provisioning.NewCreateReport()
	for _, item := range items {
		outcome := classifier.Classify(item, taken)
		switch outcome.Kind {
		case provisioning.KindDuplicate:
			report.AddDuplicate(item.Email, outcome.Reason)
			metrics.BulkItemsTotal.WithLabelValues("duplicate").Inc()
			continue
		case provisioning.KindInvalid:
			report.AddError(item.Email, outcome.Reason)
			metrics.BulkItemsTotal.WithLabelValues("error").Inc()
			continue
		}

		created, err := s.provisionOne(ctx, outcome.Item, role.RoleUser, outcome.Item.Processes)
		if err != nil {
			report.AddError(outcome.Item.Email, err.Error())
			metrics.BulkItemsTotal.WithLabelValues("error").Inc()
			continue
		}

		taken.Add(created.Email)
		report.AddCreated(created.Email, created.UserID, created.Password)
		metrics.BulkItemsTotal.WithLabelValues("created").Inc()
		metrics.UsersProvisionedTotal.WithLabelValues("bulk").Inc()
	}

	report.Finalize()
	metrics.BulkBatchesTotal.WithLabelValues("create", "ok").Inc()
	metrics.BulkBatchDuration.WithLabelValues("create").Observe(time.Since(start).Seconds())

	s.logger.Info("bulk create finished",
		"total", report.Summary.Total,
		"created", report.Summary.Created,
		"duplicates", report.Summary.Duplicates,
		"errors", report.Summary.Errors,
	)
	return report, nil
}

// CreateUserInput is the input for single-account creation.
type CreateUserInput struct {
	Email     string
	FullName  string
	Role      role.Role
	Processes []string
}

// CreateUser provisions one account. Administrators are granted every
// active process category regardless of the requested grants, so an admin
// always sees the whole tree.
func (s *ProvisionService) CreateUser(ctx context.Context, input CreateUserInput) (*provisioning.CreatedUser, error) {
	if !input.Role.IsValid() {
		return nil, role.ErrInvalidRole
	}

	taken, err := s.snapshotEmails(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.processes.ListActiveCategoryIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load process categories: %w", err)
	}

	grants := input.Processes
	if input.Role.IsAdmin() {
		grants = categories
	}

	classifier := provisioning.NewClassifier(categories)
	outcome := classifier.Classify(provisioning.BatchItem{
		Email:     input.Email,
		FullName:  input.FullName,
		Processes: grants,
	}, taken)

	switch outcome.Kind {
	case provisioning.KindDuplicate:
		return nil, user.AlreadyExistsError(input.Email)
	case provisioning.KindInvalid:
		return nil, fmt.Errorf("%w: %s", shared.ErrValidation, outcome.Reason)
	}

	created, err := s.provisionOne(ctx, outcome.Item, input.Role, outcome.Item.Processes)
	if err != nil {
		return nil, err
	}

	metrics.UsersProvisionedTotal.WithLabelValues("single").Inc()
	return created, nil
}

// provisionOne runs the four-step creation sequence. The temporary password
// exists only in the returned value; persistence sees the hash.
func (s *ProvisionService) provisionOne(ctx context.Context, item provisioning.BatchItem, r role.Role, grants []string) (*provisioning.CreatedUser, error) {
	plaintext, err := password.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity, err := user.New(item.Email, hash)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, identity); err != nil {
		return nil, err
	}

	if err := s.completeProvision(ctx, identity.ID(), item, r, grants); err != nil {
		s.rollback(ctx, identity.ID(), item.Email)
		return nil, err
	}

	return &provisioning.CreatedUser{
		Email:    identity.Email(),
		UserID:   identity.ID(),
		Password: plaintext,
	}, nil
}

func (s *ProvisionService) completeProvision(ctx context.Context, userID shared.ID, item provisioning.BatchItem, r role.Role, grants []string) error {
	p, err := profile.New(userID, item.Email, item.FullName)
	if err != nil {
		return err
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	assignment, err := role.NewAssignment(userID, r)
	if err != nil {
		return err
	}
	if err := s.roles.Create(ctx, assignment); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	grantRows := make([]*access.Grant, 0, len(grants))
	for _, idx := range grants {
		g, err := access.NewGrant(userID, idx)
		if err != nil {
			return err
		}
		grantRows = append(grantRows, g)
	}
	if err := s.access.CreateBatch(ctx, grantRows); err != nil {
		return fmt.Errorf("failed to create access grants: %w", err)
	}

	return nil
}

// rollback deletes the identity created by a failed provision. The schema
// cascades the delete to profile, role and access rows, so whichever steps
// completed are cleaned up with it.
func (s *ProvisionService) rollback(ctx context.Context, userID shared.ID, email string) {
	metrics.ProvisionRollbacksTotal.Inc()
	if err := s.users.Delete(ctx, userID); err != nil {
		s.logger.Error("rollback failed, orphaned identity",
			"user_id", userID,
			"email", email,
			"error", err,
		)
		return
	}
	s.logger.Warn("provision rolled back", "user_id", userID, "email", email)
}

// BulkDeleteUsers deletes a batch of accounts. The batch is rejected
// outright when it would remove every administrator: the guard compares the
// current admin count against the admins named in the batch, and on
// violation reports the blocking admin IDs without deleting anything.
func (s *ProvisionService) BulkDeleteUsers(ctx context.Context, ids []shared.ID) (*provisioning.DeleteReport, error) {
	start := time.Now()
	report := provisioning.NewDeleteReport(len(ids))

	adminIDs, err := s.roles.ListAdminIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list administrators: %w", err)
	}

	inBatch := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		inBatch[id.String()] = struct{}{}
	}
	var blockedAdmins []shared.ID
	for _, adminID := range adminIDs {
		if _, ok := inBatch[adminID.String()]; ok {
			blockedAdmins = append(blockedAdmins, adminID)
		}
	}

	if len(adminIDs)-len(blockedAdmins) < 1 && len(blockedAdmins) > 0 {
		report.Block(blockedAdmins)
		metrics.BulkBatchesTotal.WithLabelValues("delete", "blocked").Inc()
		s.logger.Warn("bulk delete blocked by admin guard",
			"batch_size", len(ids),
			"admins_in_batch", len(blockedAdmins),
			"admins_total", len(adminIDs),
		)
		return report, nil
	}

	for _, id := range ids {
		if err := s.users.Delete(ctx, id); err != nil {
			report.AddFailed(id, deleteErrorMessage(err))
			continue
		}
		report.AddDeleted(id)
		metrics.UsersDeletedTotal.Inc()
	}

	report.Finalize()
	metrics.BulkBatchesTotal.WithLabelValues("delete", "ok").Inc()
	metrics.BulkBatchDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())

	s.logger.Info("bulk delete finished",
		"total", report.Summary.Total,
		"deleted", report.Summary.Deleted,
		"failed", report.Summary.Failed,
	)
	return report, nil
}

// DeleteUser deletes a single account, applying the same last-administrator
// guard as the bulk path.
func (s *ProvisionService) DeleteUser(ctx context.Context, id shared.ID) error {
	assignment, err := s.roles.GetByUserID(ctx, id)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if err == nil && assignment.Role().IsAdmin() {
		admins, err := s.roles.CountAdmins(ctx)
		if err != nil {
			return fmt.Errorf("failed to count administrators: %w", err)
		}
		if admins <= 1 {
			return role.ErrLastAdmin
		}
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	metrics.UsersDeletedTotal.Inc()
	return nil
}

func (s *ProvisionService) snapshotEmails(ctx context.Context) (*provisioning.EmailSet, error) {
	emails, err := s.users.ListEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot existing emails: %w", err)
	}
	return provisioning.NewEmailSet(emails), nil
}

func deleteErrorMessage(err error) string {
	if shared.IsNotFound(err) {
		return "user not found"
	}
	return err.Error()
}
