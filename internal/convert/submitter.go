package convert

import (
	"context"

	"eternalpay/internal/adapters"

	"github.com/sirupsen/logrus"
)

// Submitter posts the engine's frozen conversion state to the remote service.
// Exactly one submission may be in flight per engine; on failure the engine
// returns to a submittable state with no field data lost.
type Submitter struct {
	engine *Engine
	client adapters.TransactionClient
}

func NewSubmitter(engine *Engine, client adapters.TransactionClient) *Submitter {
	return &Submitter{engine: engine, client: client}
}

func (s *Submitter) Submit(ctx context.Context) (string, error) {
	req, err := s.engine.beginSubmission()
	if err != nil {
		return "", err
	}
	defer s.engine.endSubmission()

	id, err := s.client.Create(ctx, req)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"source":      req.SourceCurrency,
			"destination": req.DestinationCurrency,
		}).Error("Transaction submission failed")
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": id,
		"source":         req.SourceCurrency,
		"destination":    req.DestinationCurrency,
	}).Info("Transaction submitted")
	return id, nil
}
