package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Action represents the recommendation attached to a scanner signal.
// The set is open: the scanner is unversioned and may emit new labels,
// which pass through untouched.
type Action string

const (
	ActionBuy          Action = "BUY"
	ActionExplosiveBuy Action = "EXPLOSIVE BUY"
	ActionGoldenTrade  Action = "GOLDEN TRADE"
	ActionWatch        Action = "WATCH"
	ActionSell         Action = "SELL"
	ActionHold         Action = "HOLD"
)

// BuyActions returns the buy-class action set used by the eligibility filter.
func BuyActions() map[Action]bool {
	return map[Action]bool{
		ActionBuy:          true,
		ActionExplosiveBuy: true,
		ActionGoldenTrade:  true,
	}
}

// Normalize uppercases an action label the way the scanner log records it.
func (a Action) Normalize() Action {
	return Action(strings.ToUpper(strings.TrimSpace(string(a))))
}

// SignalRecord is one entry of the append-only scanner event log. Records
// are immutable once logged; ordering is insertion order, not date order.
type SignalRecord struct {
	Ticker string    `json:"ticker" validate:"required"`
	Date   time.Time `json:"date"`
	Action Action    `json:"action"`
	Score  int       `json:"score"`
	Price  float64   `json:"price"`
}

// signalJSON is the wire form of a log entry. Score and price arrive from an
// unversioned producer and may be numbers, quoted numbers, or garbage; they
// coerce to 0 rather than failing the record.
type signalJSON struct {
	Ticker string          `json:"ticker"`
	Date   string          `json:"date"`
	Action string          `json:"action"`
	Score  json.RawMessage `json:"score"`
	Price  json.RawMessage `json:"price"`
}

// UnmarshalJSON decodes a log entry, coercing stale numeric fields to their
// defaults. A record with an unparseable date is flagged by a zero Date so
// the loader can drop and count it.
func (s *SignalRecord) UnmarshalJSON(data []byte) error {
	var raw signalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Ticker = raw.Ticker
	s.Action = Action(raw.Action)
	s.Score = int(coerceFloat(raw.Score))
	s.Price = coerceFloat(raw.Price)

	date, err := time.Parse("2006-01-02", raw.Date)
	if err != nil {
		s.Date = time.Time{}
		return nil
	}
	s.Date = date.UTC()

	return nil
}

// MarshalJSON writes the record back in the event-log wire form.
func (s SignalRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"ticker": s.Ticker,
		"date":   s.Date.Format("2006-01-02"),
		"action": string(s.Action),
		"score":  s.Score,
		"price":  s.Price,
	})
}

// coerceFloat extracts a float from a raw JSON value that may be a number,
// a numeric string, or anything else (in which case it is 0).
func coerceFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}

	return 0
}
