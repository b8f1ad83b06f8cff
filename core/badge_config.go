package core

import (
	"math/big"

	"emblem/config"
	"emblem/core/state"
	"emblem/native/badges"
)

// ApplyBadgeConfig materialises the configured badge tracks and definitions
// and returns the threshold rules the indexer evaluates. Re-applying the
// same configuration is a no-op for records that already exist; in
// particular a definition's award count survives restarts.
func ApplyBadgeConfig(mgr *state.Manager, cfg *config.Config) ([]ThresholdRule, error) {
	for _, track := range cfg.Tracks {
		if _, err := mgr.CreateOrLoadBadgeTrack(track.Name, track.Role, cfg.Protocol); err != nil {
			return nil, err
		}
	}

	rules := make([]ThresholdRule, 0, len(cfg.Badges))
	for _, badge := range cfg.Badges {
		threshold, err := badge.ThresholdValue()
		if err != nil {
			return nil, err
		}
		def := &badges.BadgeDefinition{
			ID:          badge.Name,
			Description: badge.Description,
			Track:       badge.Track,
			VotingPower: big.NewInt(badge.VotingPower),
			Image:       badge.Image,
		}
		if _, err := mgr.CreateOrLoadBadgeDefinition(def); err != nil {
			return nil, err
		}
		rules = append(rules, ThresholdRule{
			Definition: badge.Name,
			Metric:     badge.Metric,
			Threshold:  threshold,
		})
	}
	return rules, nil
}
