package services

import (
	"context"
	"fmt"
	"net/http"

	"funder/application/ports"
	"funder/domain/config"
	"funder/domain/core/codec"
	"funder/domain/core/entities"
	"funder/domain/core/valueobjects"
	"funder/domain/shared"
	pkgerrors "funder/pkg/errors"

	"go.uber.org/zap"
)

// EntityService decodes, stores and projects tagged funding documents
type EntityService struct {
	repo      ports.EntityRepository
	publisher ports.EventPublisher
	metrics   ports.Metrics
	config    *config.DomainConfig
	logger    *zap.Logger
}

// NewEntityService creates a new entity service
func NewEntityService(
	repo ports.EntityRepository,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *EntityService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &EntityService{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		config:    cfg,
		logger:    logger,
	}
}

// MaxDocumentBytes is the largest document Decode accepts
func (s *EntityService) MaxDocumentBytes() int64 {
	return s.config.MaxDocumentBytes
}

// Decode parses body and builds the value its _type names
func (s *EntityService) Decode(ctx context.Context, body []byte) (shared.Data, error) {
	if int64(len(body)) > s.config.MaxDocumentBytes {
		err := pkgerrors.NewDocumentTooLargeError(s.config.MaxDocumentBytes).WithDetail("size", len(body))
		s.metrics.ObserveDecode("", err)
		return nil, err
	}

	obj, err := shared.ParseObject(body)
	if err != nil {
		s.metrics.ObserveDecode("", err)
		return nil, err
	}

	d, err := codec.Decode(obj)
	if err == nil {
		err = s.checkLimits(d)
	}
	s.metrics.ObserveDecode(obj.Type(), err)
	if err != nil {
		s.logger.Debug("Document rejected",
			zap.String("type", obj.Type()),
			zap.Error(err),
		)
		return nil, err
	}
	return d, nil
}

// Store decodes body, saves the entity and announces it
func (s *EntityService) Store(ctx context.Context, body []byte) (shared.Identified, error) {
	d, err := s.Decode(ctx, body)
	if err != nil {
		return nil, err
	}

	entity, ok := d.(shared.Identified)
	if !ok {
		return nil, pkgerrors.NewValidationError("entity of type '" + d.TypeTag() + "' has no id").
			WithCode("NOT_STORABLE")
	}

	if project, ok := entity.(*entities.Project); ok && s.config.StrictGoalChain {
		if err := checkGoalChain(project); err != nil {
			return nil, err
		}
	}

	err = s.repo.Save(ctx, entity)
	s.metrics.ObserveStore(entity.TypeTag(), err)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to store entity")
	}

	s.logger.Info("Entity stored",
		zap.String("type", entity.TypeTag()),
		zap.String("id", entity.ID()),
	)

	if s.config.EnableEventPublishing {
		// The entity is durable at this point; a failed announcement does
		// not undo the save.
		if err := s.publisher.PublishStored(ctx, entity); err != nil {
			s.logger.Warn("Failed to publish stored event",
				zap.String("type", entity.TypeTag()),
				zap.String("id", entity.ID()),
				zap.Error(err),
			)
		}
	}

	return entity, nil
}

// Get loads a stored entity
func (s *EntityService) Get(ctx context.Context, tag, id string) (shared.Identified, error) {
	if !codec.IsKnownType(tag) {
		return nil, pkgerrors.NewUnknownTypeError(tag)
	}
	if id == "" {
		return nil, pkgerrors.NewArgumentError("id")
	}
	return s.repo.Get(ctx, tag, id)
}

// ListByParent returns the stored entities attached to parent
func (s *EntityService) ListByParent(ctx context.Context, parent string) ([]shared.Identified, error) {
	if parent == "" {
		return nil, pkgerrors.NewArgumentError("for")
	}
	return s.repo.ListByParent(ctx, parent, s.config.MaxListResults)
}

// ListScopedData returns the plain scoped data attached to parent.
// Agent scoped data and journal entries are left out.
func (s *EntityService) ListScopedData(ctx context.Context, parent string) ([]*valueobjects.ScopedData, error) {
	items, err := s.ListByParent(ctx, parent)
	if err != nil {
		return nil, err
	}

	result := make([]*valueobjects.ScopedData, 0, len(items))
	for _, item := range items {
		if sd, ok := item.(*valueobjects.ScopedData); ok {
			result = append(result, sd)
		}
	}
	return result, nil
}

// CurrentGoal returns the goal of a stored project that has no successor
func (s *EntityService) CurrentGoal(ctx context.Context, projectID string) (*valueobjects.Goal, error) {
	entity, err := s.Get(ctx, entities.ProjectType, projectID)
	if pkgerrors.IsNotFound(err) {
		return nil, pkgerrors.NewNotFoundError("project").WithDetail("project", projectID).WithCause(err)
	}
	if err != nil {
		return nil, err
	}

	project, ok := entity.(*entities.Project)
	if !ok {
		return nil, pkgerrors.NewInternalError("stored project has type " + entity.TypeTag())
	}

	goal, ok := project.CurrentGoal()
	if !ok {
		return nil, pkgerrors.NewNotFoundError("current goal").WithDetail("project", projectID)
	}
	return goal, nil
}

// RenderXML decodes body and returns its XML projection
func (s *EntityService) RenderXML(ctx context.Context, body []byte) (string, error) {
	if err := s.checkXMLEnabled(); err != nil {
		return "", err
	}
	d, err := s.Decode(ctx, body)
	if err != nil {
		return "", err
	}
	return s.ToXML(d)
}

// ToXML renders an already decoded value
func (s *EntityService) ToXML(d shared.Data) (string, error) {
	if err := s.checkXMLEnabled(); err != nil {
		return "", err
	}
	out, err := shared.RenderXML(d)
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to render xml")
	}
	return out, nil
}

func (s *EntityService) checkXMLEnabled() error {
	if !s.config.EnableXMLProjection {
		err := pkgerrors.NewValidationError("xml projection is disabled").WithCode("XML_DISABLED")
		err.HTTPStatus = http.StatusNotAcceptable
		return err
	}
	return nil
}

func (s *EntityService) checkLimits(d shared.Data) error {
	var sizes []int
	switch e := d.(type) {
	case *entities.Agent:
		sizes = []int{len(e.Metadata()), len(e.Names()), len(e.Contacts()), len(e.Addresses())}
	case *entities.Project:
		sizes = []int{len(e.Metadata()), len(e.Goals()), len(e.Summaries()), len(e.Locators())}
	case *entities.Node:
		sizes = []int{len(e.Metadata())}
	}

	for _, n := range sizes {
		if n > s.config.MaxCollectionItems {
			return pkgerrors.NewValidationError(
				fmt.Sprintf("collection of %d items exceeds the limit of %d", n, s.config.MaxCollectionItems),
			).WithCode("TOO_MANY_ITEMS")
		}
	}
	return nil
}

// checkGoalChain requires every goal of the project to sit on one chain
func checkGoalChain(p *entities.Project) error {
	goals := p.Goals()
	if len(goals) == 0 {
		return nil
	}
	if chain := p.GoalChain(); len(chain) != len(goals) {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("goal chain covers %d of %d goals", len(chain), len(goals)),
		).WithCode("BROKEN_GOAL_CHAIN").WithDetail("project", p.ID())
	}
	return nil
}
