package models

import (
	"fmt"
	"time"
)

// Tendency is the directional bias of a verdict
type Tendency string

const (
	TendencyBullish Tendency = "Bullish"
	TendencyNeutral Tendency = "Neutral"
	TendencyBearish Tendency = "Bearish"
)

// Valid reports whether t is one of the canonical tendencies.
func (t Tendency) Valid() bool {
	switch t {
	case TendencyBullish, TendencyNeutral, TendencyBearish:
		return true
	}
	return false
}

// RiskLevel is the danger level attached to a verdict
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether r is one of the canonical risk levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// AnalysisVerdict is the tendency/risk/reasoning triple produced per analysis.
type AnalysisVerdict struct {
	Tendency  Tendency  `json:"tendency"`
	Risk      RiskLevel `json:"risk"`
	Reasoning string    `json:"reasoning"`
}

// Validate checks the verdict against the canonical vocabulary.
func (v AnalysisVerdict) Validate() error {
	if !v.Tendency.Valid() {
		return fmt.Errorf("invalid tendency %q", v.Tendency)
	}
	if !v.Risk.Valid() {
		return fmt.Errorf("invalid risk %q", v.Risk)
	}
	if v.Reasoning == "" {
		return fmt.Errorf("reasoning is empty")
	}
	return nil
}

// VerdictSource records which component produced a verdict
type VerdictSource string

const (
	SourceEngine           VerdictSource = "engine"
	SourceReasoningService VerdictSource = "reasoning_service"
)

// Verdict is a validated AnalysisVerdict tagged with its producer.
type Verdict struct {
	AnalysisVerdict
	Source VerdictSource `json:"source"`
}

// NewEngineVerdict tags a verdict produced by the rule-based classifier.
func NewEngineVerdict(v AnalysisVerdict) Verdict {
	return Verdict{AnalysisVerdict: v, Source: SourceEngine}
}

// NewReasoningVerdict validates and tags a verdict returned by the reasoning service.
func NewReasoningVerdict(v AnalysisVerdict) (Verdict, error) {
	if err := v.Validate(); err != nil {
		return Verdict{}, err
	}
	return Verdict{AnalysisVerdict: v, Source: SourceReasoningService}, nil
}

// AnalysisRequest represents an analysis request for a market on behalf of a wallet
type AnalysisRequest struct {
	Market        string `json:"market" binding:"required"`
	WalletAddress string `json:"wallet_address" binding:"required"`
}

// AnalysisResult is the full response of one analysis call
type AnalysisResult struct {
	ID                 string           `json:"id"`
	Symbol             string           `json:"symbol"`
	Verdict            Verdict          `json:"verdict"`
	Indicators         IndicatorSummary `json:"indicators"`
	DetailedIndicators IndicatorSet     `json:"detailed_indicators"`
	MarketData         MarketSnapshot   `json:"market_data"`
	Timestamp          time.Time        `json:"timestamp"`
}

// IndicatorReport is returned by the indicator-only endpoint
type IndicatorReport struct {
	Symbol     string         `json:"symbol"`
	Interval   string         `json:"interval"`
	Bars       int            `json:"bars"`
	Indicators IndicatorSet   `json:"indicators"`
	MarketData MarketSnapshot `json:"market_data"`
	Timestamp  time.Time      `json:"timestamp"`
}
