// Package usecase implements the gateway's orchestration workflows. Each
// workflow is a short sequence of downstream stages with branch-and-abort
// semantics: blocking calls run through the task lane's rendezvous, audit
// writes go out fire-and-forget and never delay the response.
package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/garrywilliams/cake/internal/config"
	"github.com/garrywilliams/cake/internal/domain/dto"
	"github.com/garrywilliams/cake/internal/domain/model"
	"github.com/garrywilliams/cake/internal/infrastructure/tasks"
)

// classification is the outcome of a successful detector call.
type classification struct {
	IsCake     bool
	Proportion float64
}

// CakeWorkflowService orchestrates the catalog and detector collaborators.
// It implements CakeWorkflow.
type CakeWorkflowService struct {
	logger   *zap.Logger
	client   DownstreamCaller
	pool     *tasks.Pool
	audit    AuditRecorder
	validate *validator.Validate

	catalogURL  string
	detectorURL string
	threshold   float64
	callTimeout time.Duration
}

// NewCakeWorkflowService creates the workflow service.
func NewCakeWorkflowService(
	cfg *config.Config,
	client DownstreamCaller,
	pool *tasks.Pool,
	audit AuditRecorder,
	logger *zap.Logger,
) *CakeWorkflowService {
	return &CakeWorkflowService{
		logger:      logger,
		client:      client,
		pool:        pool,
		audit:       audit,
		validate:    validator.New(),
		catalogURL:  cfg.Service.CatalogURL,
		detectorURL: cfg.Service.DetectorURL,
		threshold:   cfg.Service.DetectorThreshold,
		callTimeout: cfg.Tasks.CallTimeout,
	}
}

// call runs one downstream request on the task lane and waits for the result.
// The wait is bounded by the configured call timeout.
func (s *CakeWorkflowService) call(ctx context.Context, name, method, url string, body interface{}, query map[string]string) (*model.Envelope, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	value, err := s.pool.SubmitWait(waitCtx, name, func(taskCtx context.Context) (interface{}, error) {
		return s.client.Call(taskCtx, method, url, body, query)
	})
	if err != nil {
		s.logger.Warn("blocking downstream call failed",
			zap.String("task", name),
			zap.String("url", url),
			zap.Error(err))
		return nil, err
	}

	return value.(*model.Envelope), nil
}

// classifyImage runs the shared classification sub-sequence used by create
// and update: a blocking detector call, an abort on rejection, and a
// fire-and-forget audit record when the detector sees no cake.
func (s *CakeWorkflowService) classifyImage(ctx context.Context, imageURL string) (*classification, error) {
	body := map[string]interface{}{
		"url":       imageURL,
		"threshold": s.threshold,
	}

	envelope, err := s.call(ctx, "detector.classify", http.MethodPost, s.detectorURL, body, nil)
	if err != nil {
		return nil, ErrInvalidImage
	}
	if envelope.StatusCode != http.StatusOK {
		s.logger.Warn("detector rejected classification request",
			zap.Int("status", envelope.StatusCode))
		return nil, ErrInvalidImage
	}

	result := parseClassification(envelope)

	if !result.IsCake {
		threshold := s.threshold
		proportion := result.Proportion
		s.pool.Submit("audit.record_classification", func(taskCtx context.Context) (interface{}, error) {
			return nil, s.audit.RecordClassification(taskCtx, 0, imageURL, threshold, false, proportion)
		})
		return nil, ErrNotCake
	}

	return result, nil
}

// parseClassification reads the detector's {isCake, proportion} body. A
// malformed body counts as a negative classification.
func parseClassification(envelope *model.Envelope) *classification {
	result := &classification{}

	content, ok := envelope.Content.(map[string]interface{})
	if !ok {
		return result
	}

	if isCake, ok := content["isCake"].(bool); ok {
		result.IsCake = isCake
	}
	if proportion, ok := content["proportion"].(float64); ok {
		result.Proportion = proportion
	}

	return result
}

// ListCakes forwards a paginated catalog listing verbatim.
func (s *CakeWorkflowService) ListCakes(ctx context.Context, skip, limit string) (*model.Envelope, error) {
	query := map[string]string{
		"skip":  skip,
		"limit": limit,
	}

	envelope, err := s.call(ctx, "catalog.list", http.MethodGet, s.catalogURL, nil, query)
	if err != nil {
		return nil, ErrCatalogUnavailable
	}

	return envelope, nil
}

// CreateCake implements the create workflow: local imageUrl check, blocking
// classification, blocking catalog create, fire-and-forget audit write.
func (s *CakeWorkflowService) CreateCake(ctx context.Context, payload map[string]interface{}) (*model.Envelope, error) {
	imageURL, _ := payload["imageUrl"].(string)
	if imageURL == "" {
		return nil, ErrMissingImageURL
	}

	result, err := s.classifyImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	envelope, err := s.call(ctx, "catalog.create", http.MethodPost, s.catalogURL, payload, nil)
	if err != nil {
		return nil, ErrCreateFailed
	}
	if envelope.StatusCode != http.StatusCreated {
		// A positive classification that fails to create leaves no audit
		// record; the two writes are independent and the second is never
		// issued.
		s.logger.Warn("catalog rejected cake create",
			zap.Int("status", envelope.StatusCode))
		return nil, ErrCreateFailed
	}

	cakeID, ok := envelope.ContentID()
	if !ok {
		s.logger.Warn("catalog create response carried no id; skipping audit record")
		return envelope, nil
	}

	threshold := s.threshold
	proportion := result.Proportion
	s.pool.Submit("audit.record_classification", func(taskCtx context.Context) (interface{}, error) {
		return nil, s.audit.RecordClassification(taskCtx, cakeID, imageURL, threshold, true, proportion)
	})

	return envelope, nil
}

// ReadCake forwards a catalog read verbatim, including error statuses, and
// counts the access asynchronously when the response carries a cake id.
func (s *CakeWorkflowService) ReadCake(ctx context.Context, id string) (*model.Envelope, error) {
	envelope, err := s.call(ctx, "catalog.read", http.MethodGet, s.catalogURL+id+"/", nil, nil)
	if err != nil {
		return nil, ErrCatalogUnavailable
	}

	if cakeID, ok := envelope.ContentID(); ok {
		s.pool.Submit("audit.increment_access", func(taskCtx context.Context) (interface{}, error) {
			return nil, s.audit.IncrementAccess(taskCtx, cakeID)
		})
	}

	return envelope, nil
}

// UpdateCake validates the payload shape locally, re-runs the classification
// sub-sequence when an image is supplied, and forwards the update. Updates
// never touch the audit trail.
func (s *CakeWorkflowService) UpdateCake(ctx context.Context, id string, payload map[string]interface{}) (*model.Envelope, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}

	if imageURL, ok := payload["imageUrl"].(string); ok && imageURL != "" {
		if _, err := s.classifyImage(ctx, imageURL); err != nil {
			return nil, err
		}
	}

	envelope, err := s.call(ctx, "catalog.update", http.MethodPut, s.catalogURL+id+"/", payload, nil)
	if err != nil {
		return nil, ErrUpdateFailed
	}
	if envelope.StatusCode != http.StatusOK {
		s.logger.Warn("catalog rejected cake update",
			zap.String("cake_id", id),
			zap.Int("status", envelope.StatusCode))
		return nil, ErrUpdateFailed
	}

	return envelope, nil
}

// DeleteCake forwards a catalog delete verbatim and soft-deletes the audit
// record asynchronously when the response carries a cake id. The record
// itself is kept forever.
func (s *CakeWorkflowService) DeleteCake(ctx context.Context, id string) (*model.Envelope, error) {
	envelope, err := s.call(ctx, "catalog.delete", http.MethodDelete, s.catalogURL+id+"/", nil, nil)
	if err != nil {
		return nil, ErrCatalogUnavailable
	}

	if cakeID, ok := envelope.ContentID(); ok {
		s.pool.Submit("audit.soft_delete", func(taskCtx context.Context) (interface{}, error) {
			return nil, s.audit.SoftDelete(taskCtx, cakeID)
		})
	}

	return envelope, nil
}

// validatePayload checks the payload against the catalog's cake schema
// before any collaborator is contacted.
func (s *CakeWorkflowService) validatePayload(payload map[string]interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return &ValidationError{Fields: map[string]string{"payload": "must be a JSON object"}}
	}

	var cake dto.CakePayload
	if err := json.Unmarshal(raw, &cake); err != nil {
		return &ValidationError{Fields: map[string]string{"payload": "has fields of the wrong type"}}
	}

	if err := s.validate.Struct(&cake); err != nil {
		fields := make(map[string]string)
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrs {
				fields[fieldErr.Field()] = "failed on the '" + fieldErr.Tag() + "' rule"
			}
		} else {
			fields["payload"] = "is invalid"
		}
		return &ValidationError{Fields: fields}
	}

	return nil
}
