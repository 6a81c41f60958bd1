// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package recommend

import "fmt"

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines the relative contribution of each scoring signal
	// to the personalized score. Weights are normalized at runtime, so
	// they don't need to sum to 1.0.
	Weights Weights `json:"weights"`

	// Behavior contains parameters for the behavior-score component.
	Behavior BehaviorConfig `json:"behavior"`

	// Recency contains parameters for the recency-score component.
	Recency RecencyConfig `json:"recency"`

	// Profile contains fallback values for users without history.
	Profile ProfileConfig `json:"profile"`

	// Peers contains parameters for the collaborative signal.
	Peers PeerConfig `json:"peers"`

	// Limits contains candidate fetch caps and result-size bounds.
	Limits LimitsConfig `json:"limits"`
}

// Weights defines the relative contribution of each scoring signal.
type Weights struct {
	// Content is the weight for tag-overlap affinity with the user's
	// interest set.
	Content float64 `json:"content"`

	// Behavior is the weight for the behavior-profile match score.
	Behavior float64 `json:"behavior"`

	// Popularity is the weight for log-scaled engagement counts.
	Popularity float64 `json:"popularity"`

	// Recency is the weight for article age decay.
	Recency float64 `json:"recency"`
}

// Normalize returns a copy with weights normalized to sum to 1.0.
// All-zero weights fall back to equal shares.
func (w Weights) Normalize() Weights {
	sum := w.Content + w.Behavior + w.Popularity + w.Recency
	if sum == 0 {
		const equalWeight = 0.25
		return Weights{
			Content:    equalWeight,
			Behavior:   equalWeight,
			Popularity: equalWeight,
			Recency:    equalWeight,
		}
	}

	return Weights{
		Content:    w.Content / sum,
		Behavior:   w.Behavior / sum,
		Popularity: w.Popularity / sum,
		Recency:    w.Recency / sum,
	}
}

// BehaviorConfig contains parameters for the behavior-score component.
// The component is additive: each matched preference adds its bonus,
// so the maximum is LengthBonus + AuthorBonus + EngagementBonus.
type BehaviorConfig struct {
	// LengthBonus is added when the article length is within
	// LengthWindow characters of the user's preferred length.
	// Default: 0.3.
	LengthBonus float64 `json:"length_bonus"`

	// LengthWindow is the half-width of the preferred-length band in
	// characters. Default: 1000.
	LengthWindow int `json:"length_window"`

	// AuthorBonus is added when the user has previously read any
	// article by the candidate's author. Default: 0.2.
	AuthorBonus float64 `json:"author_bonus"`

	// EngagementBonus is added for highly engaged users viewing
	// highly liked articles. Default: 0.2.
	EngagementBonus float64 `json:"engagement_bonus"`

	// EngagementThreshold is the minimum profile engagement level for
	// the engagement bonus. Default: 0.7.
	EngagementThreshold float64 `json:"engagement_threshold"`

	// LikeThreshold is the minimum article like count for the
	// engagement bonus. Default: 100.
	LikeThreshold int64 `json:"like_threshold"`
}

// RecencyConfig contains parameters for the recency-score component.
type RecencyConfig struct {
	// DecayDays is the window over which the score decays linearly
	// from 1.0 to the floor. Default: 365.
	DecayDays float64 `json:"decay_days"`

	// Floor is the minimum score for dated articles. Default: 0.1.
	Floor float64 `json:"floor"`

	// UndatedScore is the score for articles with no published
	// timestamp. Default: 0.5.
	UndatedScore float64 `json:"undated_score"`
}

// ProfileConfig contains fallback values used when a user has no
// reading history.
type ProfileConfig struct {
	// DefaultReadTimeMinutes is the assumed average read time.
	// Default: 5.0. Also substituted for articles whose read-time
	// estimator has not run.
	DefaultReadTimeMinutes float64 `json:"default_read_time_minutes"`

	// DefaultContentLength is the assumed preferred article length in
	// characters. Default: 2000.
	DefaultContentLength int `json:"default_content_length"`

	// EngagementDivisor normalizes total clap magnitude into the
	// [0, 1] engagement level. Default: 100.
	EngagementDivisor float64 `json:"engagement_divisor"`
}

// PeerConfig contains parameters for the collaborative signal.
type PeerConfig struct {
	// MaxPeers bounds the similar-reader set. Default: 10.
	MaxPeers int `json:"max_peers"`

	// ScanLimit bounds how many candidate users are examined when
	// ranking peers by reading overlap. Default: 200.
	ScanLimit int `json:"scan_limit"`

	// StrongClapThreshold is the clap magnitude a peer must exceed
	// for an article to enter the collaborative pool. Default: 5.
	StrongClapThreshold int `json:"strong_clap_threshold"`
}

// LimitsConfig contains candidate fetch caps and result-size bounds.
type LimitsConfig struct {
	// InterestFetch caps interest-matched candidate fetches.
	// Default: 50.
	InterestFetch int `json:"interest_fetch"`

	// TrendingFetch caps trending candidate fetches. Default: 30.
	TrendingFetch int `json:"trending_fetch"`

	// DefaultK is the result size when the caller passes zero.
	// Default: 20.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum allowed result size. Default: 100.
	MaxK int `json:"max_k"`
}

// DefaultConfig returns a Config with the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Content:    0.3,
			Behavior:   0.4,
			Popularity: 0.2,
			Recency:    0.1,
		},
		Behavior: BehaviorConfig{
			LengthBonus:         0.3,
			LengthWindow:        1000,
			AuthorBonus:         0.2,
			EngagementBonus:     0.2,
			EngagementThreshold: 0.7,
			LikeThreshold:       100,
		},
		Recency: RecencyConfig{
			DecayDays:    365,
			Floor:        0.1,
			UndatedScore: 0.5,
		},
		Profile: ProfileConfig{
			DefaultReadTimeMinutes: 5.0,
			DefaultContentLength:   2000,
			EngagementDivisor:      100,
		},
		Peers: PeerConfig{
			MaxPeers:            10,
			ScanLimit:           200,
			StrongClapThreshold: 5,
		},
		Limits: LimitsConfig{
			InterestFetch: 50,
			TrendingFetch: 30,
			DefaultK:      20,
			MaxK:          100,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.Content < 0 || c.Weights.Behavior < 0 ||
		c.Weights.Popularity < 0 || c.Weights.Recency < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}

	if c.Behavior.LengthWindow < 0 {
		return fmt.Errorf("behavior.length_window must be non-negative, got %d", c.Behavior.LengthWindow)
	}
	if c.Behavior.EngagementThreshold < 0 || c.Behavior.EngagementThreshold > 1 {
		return fmt.Errorf("behavior.engagement_threshold must be in [0, 1], got %f", c.Behavior.EngagementThreshold)
	}

	if c.Recency.DecayDays <= 0 {
		return fmt.Errorf("recency.decay_days must be positive, got %f", c.Recency.DecayDays)
	}
	if c.Recency.Floor < 0 || c.Recency.Floor > 1 {
		return fmt.Errorf("recency.floor must be in [0, 1], got %f", c.Recency.Floor)
	}
	if c.Recency.UndatedScore < 0 || c.Recency.UndatedScore > 1 {
		return fmt.Errorf("recency.undated_score must be in [0, 1], got %f", c.Recency.UndatedScore)
	}

	if c.Profile.EngagementDivisor <= 0 {
		return fmt.Errorf("profile.engagement_divisor must be positive, got %f", c.Profile.EngagementDivisor)
	}

	if c.Peers.MaxPeers < 1 {
		return fmt.Errorf("peers.max_peers must be positive, got %d", c.Peers.MaxPeers)
	}
	if c.Peers.ScanLimit < c.Peers.MaxPeers {
		return fmt.Errorf("peers.scan_limit must be >= peers.max_peers, got %d < %d", c.Peers.ScanLimit, c.Peers.MaxPeers)
	}
	if c.Peers.StrongClapThreshold < 0 {
		return fmt.Errorf("peers.strong_clap_threshold must be non-negative, got %d", c.Peers.StrongClapThreshold)
	}

	if c.Limits.InterestFetch < 1 {
		return fmt.Errorf("limits.interest_fetch must be positive, got %d", c.Limits.InterestFetch)
	}
	if c.Limits.TrendingFetch < 1 {
		return fmt.Errorf("limits.trending_fetch must be positive, got %d", c.Limits.TrendingFetch)
	}
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	out := *c
	return &out
}
