package routernode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-A2A-Customer-Support/agent/contract"
)

// KeywordFunc is the deterministic fallback classifier.
type KeywordFunc func(query string) contractx.Mode

// Classify decides the handling mode once. A failing or unsure classifier
// falls back to keywords without calling the model again.
func Classify(
	ctx context.Context,
	in *GraphState,
	classifier contractx.Classifier,
	fallback KeywordFunc,
	logger zerolog.Logger,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	var (
		mode contractx.Mode
		err  error
	)
	if classifier != nil {
		mode, err = classifier.Classify(ctx, in.Query)
	} else {
		err = fmt.Errorf("%w: no classifier configured", contractx.ErrClassification)
	}
	if err != nil || !mode.Valid() {
		mode = fallback(in.Query)
		logger.Warn().Err(err).Str("mode", string(mode)).Msg("classifier fallback")
	} else {
		logger.Info().Str("mode", string(mode)).Msg("query classified")
	}

	if err := in.Conversation.Classify(mode); err != nil {
		return nil, err
	}
	return in, nil
}

// Route picks the branch for the classified mode.
func Route(in *GraphState) (string, error) {
	if in == nil || in.Conversation == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	switch in.Conversation.Mode() {
	case contractx.ModeData:
		return NodeDataPath, nil
	case contractx.ModeSupport:
		return NodeSupportPath, nil
	case contractx.ModeCoordination:
		return NodeCoordinationPath, nil
	}
	return "", ErrNotClassified
}
