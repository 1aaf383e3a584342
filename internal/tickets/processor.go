package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/bolao/internal/metrics"
	"github.com/shrimpsizemoose/bolao/internal/models"
	"github.com/shrimpsizemoose/bolao/internal/store"
)

type Gateway interface {
	BeginSubmission(ctx context.Context) (store.SubmissionTx, error)
}

type Receipt struct {
	SubmitterID         int64
	AcceptedPicks       int
	TotalNumbersWritten int
}

type Processor struct {
	gateway   Gateway
	validator *Validator
	rules     Rules
}

func NewProcessor(gateway Gateway, rules Rules) *Processor {
	if rules.BatchPolicy == "" {
		rules.BatchPolicy = PolicyRaw
	}
	return &Processor{
		gateway:   gateway,
		validator: NewValidator(rules),
		rules:     rules,
	}
}

func (p *Processor) Rules() Rules {
	return p.rules
}

// Submit validates a batch of picks and stores the submitter together with
// every accepted pick in one transaction. Picks with the wrong shape are
// skipped; a wrong batch size rejects the whole submission.
func (p *Processor) Submit(ctx context.Context, name string, picks [][]any) (*Receipt, error) {
	receipt, err := p.submit(ctx, name, picks)
	metrics.SubmissionsTotal.WithLabelValues(outcome(err)).Inc()
	return receipt, err
}

func (p *Processor) submit(ctx context.Context, name string, picks [][]any) (*Receipt, error) {
	req := models.SubmitRequest{FullName: strings.TrimSpace(name), Games: picks}
	if err := req.Validate(); err != nil {
		return nil, missingField(err)
	}

	if p.rules.BatchPolicy == PolicyRaw && len(picks) != p.rules.PicksPerBatch {
		return nil, &BatchSizeError{Want: p.rules.PicksPerBatch, Got: len(picks)}
	}

	accepted := make([]CanonicalPick, 0, len(picks))
	for i, raw := range picks {
		pick, err := p.validator.Validate(raw)
		if err == nil {
			accepted = append(accepted, pick)
			continue
		}

		var (
			shapeErr  *ShapeError
			rangeErr  *RangeError
			numberErr *NumberError
		)
		switch {
		case errors.As(err, &shapeErr):
			logger.Debug.Printf("Skipping pick %d from %q: %v", i+1, req.FullName, err)
			metrics.PicksSkippedTotal.WithLabelValues("shape").Inc()
		case errors.As(err, &rangeErr):
			logger.Debug.Printf("Skipping pick %d from %q: %v", i+1, req.FullName, err)
			metrics.PicksSkippedTotal.WithLabelValues("range").Inc()
		case errors.As(err, &numberErr):
			numberErr.Pick = i + 1
			return nil, numberErr
		default:
			return nil, err
		}
	}

	if p.rules.BatchPolicy == PolicyAccepted && len(accepted) != p.rules.PicksPerBatch {
		return nil, &BatchSizeError{Want: p.rules.PicksPerBatch, Got: len(accepted)}
	}

	id, err := p.persist(ctx, req.FullName, accepted)
	if err != nil {
		return nil, err
	}
	metrics.PicksAcceptedTotal.Add(float64(len(accepted)))

	return &Receipt{
		SubmitterID:         id,
		AcceptedPicks:       len(accepted),
		TotalNumbersWritten: len(accepted) * p.rules.NumbersPerPick,
	}, nil
}

func (p *Processor) persist(ctx context.Context, name string, picks []CanonicalPick) (id int64, err error) {
	tx, err := p.gateway.BeginSubmission(ctx)
	if err != nil {
		return 0, &PersistenceError{Cause: err}
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error.Printf("Failed to roll back submission from %q: %v", name, rbErr)
		}
	}()

	id, err = tx.InsertSubmitter(name)
	if err != nil {
		return 0, &PersistenceError{Cause: err}
	}

	for _, pick := range picks {
		if err = tx.InsertPick(id, pick.Text); err != nil {
			return 0, &PersistenceError{Cause: err}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, &PersistenceError{Cause: fmt.Errorf("commit: %w", err)}
	}

	return id, nil
}

func missingField(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &MissingFieldError{Field: verrs[0].Field()}
	}
	return &MissingFieldError{Field: "request"}
}

func outcome(err error) string {
	var (
		missingErr *MissingFieldError
		batchErr   *BatchSizeError
		numberErr  *NumberError
		persistErr *PersistenceError
	)
	switch {
	case err == nil:
		return "accepted"
	case errors.As(err, &missingErr):
		return "missing_field"
	case errors.As(err, &batchErr):
		return "batch_size"
	case errors.As(err, &numberErr):
		return "invalid_number"
	case errors.As(err, &persistErr):
		return "persistence"
	default:
		return "error"
	}
}
