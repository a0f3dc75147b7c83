package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"servicebid/database/repository"
	"servicebid/models"
	"servicebid/utils"

	"go.uber.org/zap"
)

// nextStatus is the forward chain of the workflow. CONFIRMED is reached
// through AcceptProposal/Confirm, never through Advance.
var nextStatus = map[models.JobStatus]models.JobStatus{
	models.StatusConfirmed:      models.StatusEnRoute,
	models.StatusEnRoute:        models.StatusArrived,
	models.StatusArrived:        models.StatusInProgress,
	models.StatusInProgress:     models.StatusReviewPending,
	models.StatusReviewPending:  models.StatusPaymentPending,
	models.StatusPaymentPending: models.StatusCompleted,
}

// actorFor names the only role allowed to trigger each workflow step.
var actorFor = map[models.JobStatus]models.Role{
	models.StatusEnRoute:        models.RolePro,
	models.StatusArrived:        models.RolePro,
	models.StatusInProgress:     models.RolePro,
	models.StatusReviewPending:  models.RolePro,
	models.StatusPaymentPending: models.RoleClient,
	models.StatusCompleted:      models.RolePro,
}

// resolve loads the proposal and, when it still exists, the linked job. A
// missing job is tolerated: the engine then operates on the proposal's status
// mirror alone so the chat experience survives broken linkage.
func (e *DefaultEngine) resolve(proposalID string) (*models.Proposal, *models.JobRequest, error) {
	prop, err := e.Repo.GetProposal(proposalID)
	if err != nil {
		return nil, nil, err
	}
	job, err := e.Repo.GetJob(prop.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.GetLogger().Warn("job missing for proposal, using status mirror",
				zap.String("proposalId", proposalID), zap.String("jobId", prop.JobID))
			return prop, nil, nil
		}
		return nil, nil, err
	}
	return prop, job, nil
}

// currentStatus prefers the job record; the proposal mirror is a best-effort
// cache used only when the job is gone.
func currentStatus(prop *models.Proposal, job *models.JobRequest) models.JobStatus {
	if job != nil {
		return job.Status
	}
	if prop.Status != "" {
		return prop.Status
	}
	return models.StatusNegotiating
}

func (e *DefaultEngine) Status(proposalID string) (models.JobStatus, error) {
	prop, job, err := e.resolve(proposalID)
	if err != nil {
		return "", err
	}
	return currentStatus(prop, job), nil
}

// commit writes the paired job + mirror update in one repository call.
func (e *DefaultEngine) commit(prop *models.Proposal, job *models.JobRequest, status models.JobStatus) (*models.JobRequest, error) {
	prop.Status = status
	if job == nil {
		if err := e.Repo.UpdateProposal(prop); err != nil {
			return nil, err
		}
		return nil, nil
	}
	job.Status = status
	if err := e.Repo.UpdateJobAndProposal(job, prop); err != nil {
		return nil, err
	}
	return job, nil
}

func (e *DefaultEngine) AcceptProposal(proposalID string) (*models.JobRequest, error) {
	prop, err := e.Repo.GetProposal(proposalID)
	if err != nil {
		return nil, err
	}
	return e.Confirm(proposalID, prop.Price)
}

func (e *DefaultEngine) Confirm(proposalID string, price float64) (*models.JobRequest, error) {
	prop, job, err := e.resolve(proposalID)
	if err != nil {
		return nil, err
	}
	status := currentStatus(prop, job)
	if status != models.StatusOpen && status != models.StatusNegotiating {
		return nil, fmt.Errorf("confirm from %s: %w", status, ErrInvalidTransition)
	}

	prop.Price = price
	if job != nil {
		job.FinalPrice = price
		job.AcceptedProposalID = prop.ID
	}
	updated, err := e.commit(prop, job, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("engagement confirmed",
		zap.String("proposalId", proposalID), zap.Float64("price", price))
	return updated, nil
}

func (e *DefaultEngine) Advance(proposalID string, next models.JobStatus, actor models.Role) (*models.JobRequest, error) {
	prop, job, err := e.resolve(proposalID)
	if err != nil {
		return nil, err
	}
	status := currentStatus(prop, job)
	if status.Terminal() {
		return nil, fmt.Errorf("advance from %s: %w", status, ErrTerminal)
	}
	if nextStatus[status] != next {
		return nil, fmt.Errorf("advance %s -> %s: %w", status, next, ErrInvalidTransition)
	}
	if want := actorFor[next]; want != actor {
		return nil, fmt.Errorf("advance to %s as %s: %w", next, actor, ErrWrongActor)
	}

	now := time.Now()
	if job != nil {
		switch next {
		case models.StatusInProgress:
			job.StartedAt = &now
		case models.StatusReviewPending:
			job.FinishedAt = &now
		}
	}
	return e.commit(prop, job, next)
}

func (e *DefaultEngine) Cancel(proposalID string) (*models.JobRequest, error) {
	prop, job, err := e.resolve(proposalID)
	if err != nil {
		return nil, err
	}
	status := currentStatus(prop, job)
	if status.Terminal() {
		return nil, fmt.Errorf("cancel from %s: %w", status, ErrTerminal)
	}
	updated, err := e.commit(prop, job, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("engagement cancelled", zap.String("proposalId", proposalID))
	return updated, nil
}

func (e *DefaultEngine) Reopen(proposalID string) (*models.JobRequest, error) {
	prop, job, err := e.resolve(proposalID)
	if err != nil {
		return nil, err
	}
	status := currentStatus(prop, job)
	if status != models.StatusCompleted {
		return nil, fmt.Errorf("reopen from %s: %w", status, ErrInvalidTransition)
	}
	if job != nil {
		if job.Reopened {
			return nil, fmt.Errorf("reopen job %s: %w", job.ID, ErrAlreadyReopened)
		}
		job.Reopened = true
		job.FinishedAt = nil
	}
	updated, err := e.commit(prop, job, models.StatusInProgress)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("engagement reopened", zap.String("proposalId", proposalID))
	return updated, nil
}
