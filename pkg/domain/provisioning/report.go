package provisioning

import "github.com/laborhours/api/pkg/domain/shared"

// CreatedUser is one successful provision, including the plaintext
// temporary password so the caller can hand it to the invitation flow and
// display it once. It is never persisted.
type CreatedUser struct {
	Email    string    `json:"email"`
	UserID   shared.ID `json:"user_id"`
	Password string    `json:"password"`
}

// DuplicateUser is a row skipped because its email is taken.
type DuplicateUser struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// FailedUser is a row that failed validation or provisioning.
type FailedUser struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// CreateResults groups the per-row outcomes of a provisioning batch.
type CreateResults struct {
	Created    []CreatedUser   `json:"created"`
	Duplicates []DuplicateUser `json:"duplicates"`
	Errors     []FailedUser    `json:"errors"`
}

// CreateSummary is the batch tally. Created+Duplicates+Errors == Total
// always holds: every input row lands in exactly one bucket.
type CreateSummary struct {
	Total      int `json:"total"`
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

// CreateReport is the full result of one provisioning batch.
type CreateReport struct {
	Success bool          `json:"success"`
	Results CreateResults `json:"results"`
	Summary CreateSummary `json:"summary"`
}

// NewCreateReport builds a report with non-nil result slices.
func NewCreateReport() *CreateReport {
	return &CreateReport{
		Results: CreateResults{
			Created:    []CreatedUser{},
			Duplicates: []DuplicateUser{},
			Errors:     []FailedUser{},
		},
	}
}

// AddCreated records a successful provision.
func (r *CreateReport) AddCreated(email string, userID shared.ID, password string) {
	r.Results.Created = append(r.Results.Created, CreatedUser{
		Email:    email,
		UserID:   userID,
		Password: password,
	})
}

// AddDuplicate records a skipped duplicate row.
func (r *CreateReport) AddDuplicate(email, reason string) {
	r.Results.Duplicates = append(r.Results.Duplicates, DuplicateUser{Email: email, Reason: reason})
}

// AddError records a failed row.
func (r *CreateReport) AddError(email, errMsg string) {
	r.Results.Errors = append(r.Results.Errors, FailedUser{Email: email, Error: errMsg})
}

// Finalize computes the summary and the success flag. Success means the
// batch ran to completion, independent of per-row outcomes.
func (r *CreateReport) Finalize() {
	r.Summary = CreateSummary{
		Total:      len(r.Results.Created) + len(r.Results.Duplicates) + len(r.Results.Errors),
		Created:    len(r.Results.Created),
		Duplicates: len(r.Results.Duplicates),
		Errors:     len(r.Results.Errors),
	}
	r.Success = true
}

// FailedDelete is a deletion that errored for one user.
type FailedDelete struct {
	UserID shared.ID `json:"user_id"`
	Error  string    `json:"error"`
}

// DeleteResults groups the per-user outcomes of a deletion batch.
type DeleteResults struct {
	Deleted       []shared.ID    `json:"deleted"`
	Failed        []FailedDelete `json:"failed"`
	BlockedAdmins []shared.ID    `json:"blocked_admins"`
}

// DeleteSummary is the deletion batch tally.
type DeleteSummary struct {
	Total   int `json:"total"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
	Blocked int `json:"blocked"`
}

// DeleteReport is the full result of one deletion batch. A guard rejection
// produces Success=false with BlockedAdmins populated and nothing deleted.
type DeleteReport struct {
	Success bool          `json:"success"`
	Results DeleteResults `json:"results"`
	Summary DeleteSummary `json:"summary"`
}

// NewDeleteReport builds a report with non-nil result slices.
func NewDeleteReport(total int) *DeleteReport {
	r := &DeleteReport{
		Results: DeleteResults{
			Deleted:       []shared.ID{},
			Failed:        []FailedDelete{},
			BlockedAdmins: []shared.ID{},
		},
	}
	r.Summary.Total = total
	return r
}

// AddDeleted records a successful deletion.
func (r *DeleteReport) AddDeleted(userID shared.ID) {
	r.Results.Deleted = append(r.Results.Deleted, userID)
}

// AddFailed records a deletion error.
func (r *DeleteReport) AddFailed(userID shared.ID, errMsg string) {
	r.Results.Failed = append(r.Results.Failed, FailedDelete{UserID: userID, Error: errMsg})
}

// Block marks the whole batch rejected by the admin guard.
func (r *DeleteReport) Block(adminIDs []shared.ID) {
	r.Results.BlockedAdmins = append(r.Results.BlockedAdmins, adminIDs...)
	r.Summary.Blocked = len(r.Results.BlockedAdmins)
	r.Success = false
}

// Finalize computes the summary for a batch that ran.
func (r *DeleteReport) Finalize() {
	r.Summary.Deleted = len(r.Results.Deleted)
	r.Summary.Failed = len(r.Results.Failed)
	r.Summary.Blocked = len(r.Results.BlockedAdmins)
	r.Success = true
}

// FailedResend is an invitation that could not be resent for one user.
type FailedResend struct {
	UserID shared.ID `json:"user_id"`
	Error  string    `json:"error"`
}

// ResendResults groups the per-user outcomes of a resend batch.
type ResendResults struct {
	Sent   []shared.ID    `json:"sent"`
	Failed []FailedResend `json:"failed"`
}

// ResendSummary is the resend batch tally.
type ResendSummary struct {
	Total  int `json:"total"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// ResendReport is the full result of one invitation resend batch.
type ResendReport struct {
	Success bool          `json:"success"`
	Results ResendResults `json:"results"`
	Summary ResendSummary `json:"summary"`
}

// NewResendReport builds a report with non-nil result slices.
func NewResendReport(total int) *ResendReport {
	r := &ResendReport{
		Results: ResendResults{
			Sent:   []shared.ID{},
			Failed: []FailedResend{},
		},
	}
	r.Summary.Total = total
	return r
}

// AddSent records a queued invitation.
func (r *ResendReport) AddSent(userID shared.ID) {
	r.Results.Sent = append(r.Results.Sent, userID)
}

// AddFailed records a resend error.
func (r *ResendReport) AddFailed(userID shared.ID, errMsg string) {
	r.Results.Failed = append(r.Results.Failed, FailedResend{UserID: userID, Error: errMsg})
}

// Finalize computes the summary for a batch that ran.
func (r *ResendReport) Finalize() {
	r.Summary.Sent = len(r.Results.Sent)
	r.Summary.Failed = len(r.Results.Failed)
	r.Success = true
}
