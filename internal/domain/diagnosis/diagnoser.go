package diagnosis

import "github.com/abdidvp/storediag/internal/domain"

// Diagnoser bundles the rule engine, explainer and recommender built from one config.
type Diagnoser struct {
	Engine      *Engine
	Explainer   *Explainer
	Recommender *Recommender
}

// New builds a Diagnoser from cfg, failing on the first configuration error.
func New(cfg domain.DiagnosticsConfig) (*Diagnoser, error) {
	engine, err := NewEngine(cfg.Rules)
	if err != nil {
		return nil, err
	}
	explainer, err := NewExplainer(cfg.Explanations)
	if err != nil {
		return nil, err
	}
	recommender, err := NewRecommender(cfg.Actions, cfg.EffectiveTiebreak())
	if err != nil {
		return nil, err
	}
	return &Diagnoser{Engine: engine, Explainer: explainer, Recommender: recommender}, nil
}
