package models

// OpportunityRecord is one parsed row of a current-scan report's opportunity
// table. It is transient: recomputed on every parse, never persisted.
type OpportunityRecord struct {
	Ticker           string `json:"ticker"`
	SectorETF        string `json:"sector_etf"`
	Action           Action `json:"action"`
	Score            int    `json:"score"`
	Certainty        string `json:"certainty"`
	EarningsSurprise string `json:"earnings_surprise"`
	RS1d             string `json:"rs_1d"`
	StopLoss         string `json:"stop_loss"`
}
